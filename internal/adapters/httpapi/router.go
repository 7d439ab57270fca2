package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the middleware chain and the /api/v1 routes.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		leaders := v1.Group("/leaders/:leaderID")
		{
			leaders.POST("/availability", h.AddAvailability)
			leaders.GET("/availability", h.ListAvailability)
			leaders.DELETE("/availability/:windowID", h.RemoveAvailability)
			leaders.PUT("/settings", h.UpdateSettings)
			leaders.POST("/meetings", h.RequestMeeting)
			leaders.GET("/meetings", h.ListMeetings)
			leaders.GET("/counts", h.CountByState)
			leaders.GET("/disciples", h.Disciples)
		}

		meetings := v1.Group("/meetings/:meetingID")
		{
			meetings.GET("", h.GetMeeting)
			meetings.POST("/confirm", h.ConfirmMeeting)
			meetings.POST("/cancel", h.CancelMeeting)
		}

		people := v1.Group("/people/:personID")
		{
			people.GET("", h.GetPerson)
			people.PUT("", h.UpsertPerson)
		}
	}
	return r
}

// Server runs the router until its context is cancelled.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server stopping")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
