package httpapi

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/input"
	"mentorbook/internal/ports/output"
)

// Translator localizes error messages for the Accept-Language of a request.
type Translator interface {
	output.T
	Match(preferences ...string) string
}

// Handler groups the HTTP endpoints over the use cases.
type Handler struct {
	availability input.AvailabilityUseCase
	booking      input.BookingUseCase
	roster       input.RosterUseCase
	directory    input.DirectoryUseCase
	tr           Translator
	location     *time.Location
}

func NewHandler(
	availability input.AvailabilityUseCase,
	booking input.BookingUseCase,
	roster input.RosterUseCase,
	directory input.DirectoryUseCase,
	tr Translator,
	location *time.Location,
) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		availability: availability,
		booking:      booking,
		roster:       roster,
		directory:    directory,
		tr:           tr,
		location:     location,
	}
}

func (h *Handler) locale(c *gin.Context) string {
	return h.tr.Match(c.GetHeader("Accept-Language"))
}

// AddAvailability POST /api/v1/leaders/:leaderID/availability
func (h *Handler) AddAvailability(c *gin.Context) {
	var req addWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	day, err := entities.ParseWeekday(req.Day)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	start, err := entities.ParseTimeOfDay(req.Start)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	end, err := entities.ParseTimeOfDay(req.End)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	w, err := h.availability.AddAvailability(c.Request.Context(), c.Param("leaderID"), day, start, end)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, toWindowResponse(w))
}

// ListAvailability GET /api/v1/leaders/:leaderID/availability
func (h *Handler) ListAvailability(c *gin.Context) {
	calendar, err := h.availability.ListAvailability(c.Request.Context(), c.Param("leaderID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, toCalendarResponse(calendar))
}

// RemoveAvailability DELETE /api/v1/leaders/:leaderID/availability/:windowID
func (h *Handler) RemoveAvailability(c *gin.Context) {
	if err := h.availability.RemoveAvailability(c.Request.Context(), c.Param("leaderID"), c.Param("windowID")); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, nil)
}

// UpdateSettings PUT /api/v1/leaders/:leaderID/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	leaderID := c.Param("leaderID")
	if err := h.availability.SetAutoConfirm(c.Request.Context(), leaderID, *req.AutoConfirm); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"leader_id": leaderID, "auto_confirm": *req.AutoConfirm})
}

// RequestMeeting POST /api/v1/leaders/:leaderID/meetings
func (h *Handler) RequestMeeting(c *gin.Context) {
	var req requestMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	m, err := h.booking.RequestMeeting(c.Request.Context(), c.Param("leaderID"), req.DiscipleID, req.Start, req.End)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, toMeetingResponse(m, h.location))
}

// ListMeetings GET /api/v1/leaders/:leaderID/meetings?state=pending
func (h *Handler) ListMeetings(c *gin.Context) {
	var filter *domain.MeetingState
	if raw := c.Query("state"); raw != "" {
		s, err := domain.ParseMeetingState(raw)
		if err != nil {
			h.badRequest(c, err.Error())
			return
		}
		filter = &s
	}
	summaries, err := h.roster.ListMeetings(c.Request.Context(), c.Param("leaderID"), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, gin.H{"list": toSummaryResponses(summaries)})
}

// CountByState GET /api/v1/leaders/:leaderID/counts
func (h *Handler) CountByState(c *gin.Context) {
	counts, err := h.roster.CountByState(c.Request.Context(), c.Param("leaderID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, countsResponse(counts))
}

// Disciples GET /api/v1/leaders/:leaderID/disciples
func (h *Handler) Disciples(c *gin.Context) {
	people, err := h.roster.Disciples(c.Request.Context(), c.Param("leaderID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	list := make([]personResponse, 0, len(people))
	for i := range people {
		list = append(list, toPersonResponse(&people[i]))
	}
	h.ok(c, gin.H{"list": list})
}

// GetMeeting GET /api/v1/meetings/:meetingID
func (h *Handler) GetMeeting(c *gin.Context) {
	m, err := h.booking.GetMeeting(c.Request.Context(), c.Param("meetingID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, toMeetingResponse(m, h.location))
}

// ConfirmMeeting POST /api/v1/meetings/:meetingID/confirm
func (h *Handler) ConfirmMeeting(c *gin.Context) {
	m, err := h.booking.ConfirmMeeting(c.Request.Context(), c.Param("meetingID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, toMeetingResponse(m, h.location))
}

// CancelMeeting POST /api/v1/meetings/:meetingID/cancel
// The body is optional; an empty one means no reason.
func (h *Handler) CancelMeeting(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(c, err.Error())
		return
	}
	m, err := h.booking.CancelMeeting(c.Request.Context(), c.Param("meetingID"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, toMeetingResponse(m, h.location))
}

// UpsertPerson PUT /api/v1/people/:personID
func (h *Handler) UpsertPerson(c *gin.Context) {
	var req upsertPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	p, err := h.directory.UpsertPerson(c.Request.Context(), entities.Person{
		ID:          c.Param("personID"),
		DisplayName: req.DisplayName,
		Email:       req.Email,
		LeaderID:    req.LeaderID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, toPersonResponse(p))
}

// GetPerson GET /api/v1/people/:personID
func (h *Handler) GetPerson(c *gin.Context) {
	p, err := h.directory.GetPerson(c.Request.Context(), c.Param("personID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, toPersonResponse(p))
}
