package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mentorbook/internal/domain"
)

// Response is the envelope of every JSON reply. Code is "ok" on success and
// a stable snake_case error code otherwise.
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	codeOK         = "ok"
	codeBadRequest = "bad_request"
	codeInternal   = "internal"
)

func (h *Handler) ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: codeOK, Message: "success", Data: data})
}

func (h *Handler) created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: codeOK, Message: "success", Data: data})
}

// badRequest reports malformed input that never reached a use case.
func (h *Handler) badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Code:    codeBadRequest,
		Message: h.tr.T(h.locale(c), "errors.invalid_argument", nil) + " " + detail,
	})
}

// fail maps a use case error onto a status and a localized message.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	code := domain.Code(err)
	if status == http.StatusInternalServerError {
		code = codeInternal
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, Response{
		Code:    code,
		Message: h.tr.T(h.locale(c), "errors."+code, nil),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrOverlap),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
