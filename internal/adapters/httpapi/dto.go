package httpapi

import (
	"strings"
	"time"

	"mentorbook/internal/domain/entities"
)

type addWindowRequest struct {
	Day   string `json:"day" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type settingsRequest struct {
	AutoConfirm *bool `json:"auto_confirm" binding:"required"`
}

type requestMeetingRequest struct {
	DiscipleID string    `json:"disciple_id" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type upsertPersonRequest struct {
	DisplayName string `json:"display_name" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email"`
	LeaderID    string `json:"leader_id"`
}

type windowResponse struct {
	ID    string `json:"id"`
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type calendarResponse struct {
	LeaderID    string           `json:"leader_id"`
	AutoConfirm bool             `json:"auto_confirm"`
	Windows     []windowResponse `json:"windows"`
}

type meetingResponse struct {
	ID           string    `json:"id"`
	LeaderID     string    `json:"leader_id"`
	DiscipleID   string    `json:"disciple_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	State        string    `json:"state"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type summaryResponse struct {
	ID           string `json:"id"`
	DiscipleID   string `json:"disciple_id"`
	DiscipleName string `json:"disciple_name"`
	Day          string `json:"day"`
	Date         string `json:"date"`
	Start        string `json:"start"`
	End          string `json:"end"`
	State        string `json:"state"`
}

type countsResponse struct {
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
	Available int `json:"available"`
}

type personResponse struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email,omitempty"`
	LeaderID    string     `json:"leader_id,omitempty"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
}

func dayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}

func toWindowResponse(w entities.TimeWindow) windowResponse {
	return windowResponse{ID: w.ID, Day: dayName(w.Day), Start: w.Start.String(), End: w.End.String()}
}

func toCalendarResponse(c *entities.AvailabilityCalendar) calendarResponse {
	out := calendarResponse{LeaderID: c.LeaderID, AutoConfirm: c.AutoConfirm, Windows: make([]windowResponse, 0, len(c.Windows))}
	for _, w := range c.Windows {
		out.Windows = append(out.Windows, toWindowResponse(w))
	}
	return out
}

func toMeetingResponse(m *entities.Meeting, loc *time.Location) meetingResponse {
	return meetingResponse{
		ID:           m.ID,
		LeaderID:     m.LeaderID,
		DiscipleID:   m.DiscipleID,
		Start:        m.ScheduledStart.In(loc),
		End:          m.ScheduledEnd.In(loc),
		State:        string(m.State),
		CancelReason: m.CancelReason,
		CreatedAt:    m.CreatedAt.In(loc),
		UpdatedAt:    m.UpdatedAt.In(loc),
	}
}

func toSummaryResponses(summaries []entities.MeetingSummary) []summaryResponse {
	out := make([]summaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryResponse{
			ID:           s.ID,
			DiscipleID:   s.DiscipleID,
			DiscipleName: s.DiscipleName,
			Day:          dayName(s.Day),
			Date:         s.Date.Format(time.DateOnly),
			Start:        s.Start.String(),
			End:          s.End.String(),
			State:        string(s.State),
		})
	}
	return out
}

func toPersonResponse(p *entities.Person) personResponse {
	out := personResponse{ID: p.ID, DisplayName: p.DisplayName, Email: p.Email, LeaderID: p.LeaderID}
	if !p.AssignedAt.IsZero() {
		at := p.AssignedAt
		out.AssignedAt = &at
	}
	return out
}
