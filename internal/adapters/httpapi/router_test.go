package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mentorbook/internal/application"
	"mentorbook/internal/infrastructure/memory"
)

type keyT struct{}

func (keyT) T(_, key string, _ map[string]any) string { return key }

func (keyT) Match(...string) string { return "en" }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) // Monday
	opts := []application.Option{application.WithClock(func() time.Time { return now })}
	h := NewHandler(
		application.NewAvailabilityService(store, store.Calendars(), opts...),
		application.NewBookingEngine(store, store.Meetings(), opts...),
		application.NewRosterView(store.Calendars(), store.Meetings(), store.People(), opts...),
		application.NewDirectoryService(store.People(), opts...),
		keyT{},
		time.UTC,
	)
	return NewRouter(h, zap.NewNop())
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
	return out
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestBookingFlow(t *testing.T) {
	r := newTestRouter(t)

	status, env := do(t, r, http.MethodPost, "/api/v1/leaders/L1/availability",
		gin.H{"day": "monday", "start": "09:00", "end": "12:00"})
	if status != http.StatusCreated {
		t.Fatalf("add window: %d %s", status, env.Code)
	}
	window := decode[windowResponse](t, env.Data)
	if window.Day != "monday" || window.Start != "09:00" || window.End != "12:00" || window.ID == "" {
		t.Fatalf("unexpected window %+v", window)
	}

	status, env = do(t, r, http.MethodPost, "/api/v1/leaders/L1/availability",
		gin.H{"day": "monday", "start": "11:00", "end": "13:00"})
	if status != http.StatusConflict || env.Code != "overlap" {
		t.Fatalf("overlap: %d %s", status, env.Code)
	}

	status, env = do(t, r, http.MethodPost, "/api/v1/leaders/L1/meetings", gin.H{
		"disciple_id": "D1",
		"start":       "2026-10-19T10:00:00Z",
		"end":         "2026-10-19T11:00:00Z",
	})
	if status != http.StatusCreated {
		t.Fatalf("request: %d %s", status, env.Code)
	}
	meeting := decode[meetingResponse](t, env.Data)
	if meeting.State != "pending" {
		t.Fatalf("state = %s", meeting.State)
	}

	status, env = do(t, r, http.MethodPost, "/api/v1/leaders/L1/meetings", gin.H{
		"disciple_id": "D2",
		"start":       "2026-10-19T10:30:00Z",
		"end":         "2026-10-19T11:30:00Z",
	})
	if status != http.StatusConflict || env.Code != "conflict" {
		t.Fatalf("conflict: %d %s", status, env.Code)
	}

	status, env = do(t, r, http.MethodPost, "/api/v1/meetings/"+meeting.ID+"/confirm", nil)
	if status != http.StatusOK || decode[meetingResponse](t, env.Data).State != "confirmed" {
		t.Fatalf("confirm: %d %s", status, env.Code)
	}

	status, env = do(t, r, http.MethodPost, "/api/v1/meetings/"+meeting.ID+"/confirm", nil)
	if status != http.StatusConflict || env.Code != "invalid_state" {
		t.Fatalf("second confirm: %d %s", status, env.Code)
	}

	status, env = do(t, r, http.MethodGet, "/api/v1/leaders/L1/counts", nil)
	if status != http.StatusOK {
		t.Fatalf("counts: %d", status)
	}
	// 09:00-10:00 and 11:00-12:00 stay free around the confirmed meeting.
	if got := decode[countsResponse](t, env.Data); got != (countsResponse{Confirmed: 1, Available: 2}) {
		t.Fatalf("counts = %+v", got)
	}

	status, env = do(t, r, http.MethodPost, "/api/v1/meetings/"+meeting.ID+"/cancel", gin.H{"reason": "sick"})
	if status != http.StatusOK {
		t.Fatalf("cancel: %d %s", status, env.Code)
	}
	cancelled := decode[meetingResponse](t, env.Data)
	if cancelled.State != "cancelled" || cancelled.CancelReason != "sick" {
		t.Fatalf("cancelled = %+v", cancelled)
	}

	status, env = do(t, r, http.MethodGet, "/api/v1/leaders/L1/meetings?state=cancelled", nil)
	if status != http.StatusOK {
		t.Fatalf("list: %d", status)
	}
	list := decode[struct {
		List []summaryResponse `json:"list"`
	}](t, env.Data).List
	if len(list) != 1 || list[0].Date != "2026-10-19" || list[0].Start != "10:00" || list[0].DiscipleName != "D1" {
		t.Fatalf("list = %+v", list)
	}
}

func TestErrorStatuses(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/api/v1/leaders/L1/availability",
		gin.H{"day": "monday", "start": "09:00", "end": "12:00"})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown meeting", http.MethodGet, "/api/v1/meetings/nope", nil, http.StatusNotFound, "meeting_not_found"},
		{"unknown window", http.MethodDelete, "/api/v1/leaders/L1/availability/nope", nil, http.StatusNotFound, "window_not_found"},
		{"unknown person", http.MethodGet, "/api/v1/people/nope", nil, http.StatusNotFound, "person_not_found"},
		{"bad day", http.MethodPost, "/api/v1/leaders/L1/availability", gin.H{"day": "funday", "start": "09:00", "end": "10:00"}, http.StatusBadRequest, codeBadRequest},
		{"empty window", http.MethodPost, "/api/v1/leaders/L1/availability", gin.H{"day": "tuesday", "start": "10:00", "end": "10:00"}, http.StatusBadRequest, "invalid_window"},
		{"missing body", http.MethodPut, "/api/v1/leaders/L1/settings", gin.H{}, http.StatusBadRequest, codeBadRequest},
		{"bad state filter", http.MethodGet, "/api/v1/leaders/L1/meetings?state=done", nil, http.StatusBadRequest, codeBadRequest},
		{"outside availability", http.MethodPost, "/api/v1/leaders/L1/meetings", gin.H{
			"disciple_id": "D1", "start": "2026-10-19T13:00:00Z", "end": "2026-10-19T14:00:00Z",
		}, http.StatusUnprocessableEntity, "unavailable"},
		{"reversed interval", http.MethodPost, "/api/v1/leaders/L1/meetings", gin.H{
			"disciple_id": "D1", "start": "2026-10-19T11:00:00Z", "end": "2026-10-19T10:00:00Z",
		}, http.StatusBadRequest, "invalid_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, r, tt.method, tt.path, tt.body)
			if status != tt.status || env.Code != tt.code {
				t.Fatalf("got %d %q, want %d %q", status, env.Code, tt.status, tt.code)
			}
			if env.Message == "" {
				t.Fatal("expected a message")
			}
		})
	}
}

func TestSettingsAndPeople(t *testing.T) {
	r := newTestRouter(t)

	status, _ := do(t, r, http.MethodPut, "/api/v1/leaders/L1/settings", gin.H{"auto_confirm": true})
	if status != http.StatusOK {
		t.Fatalf("settings: %d", status)
	}
	_, env := do(t, r, http.MethodGet, "/api/v1/leaders/L1/availability", nil)
	if cal := decode[calendarResponse](t, env.Data); !cal.AutoConfirm || len(cal.Windows) != 0 {
		t.Fatalf("calendar = %+v", cal)
	}

	status, env = do(t, r, http.MethodPut, "/api/v1/people/D1", gin.H{"display_name": "Ada", "leader_id": "L1"})
	if status != http.StatusOK {
		t.Fatalf("upsert: %d %s", status, env.Code)
	}
	if p := decode[personResponse](t, env.Data); p.DisplayName != "Ada" || p.AssignedAt == nil {
		t.Fatalf("person = %+v", p)
	}

	_, env = do(t, r, http.MethodGet, "/api/v1/leaders/L1/disciples", nil)
	list := decode[struct {
		List []personResponse `json:"list"`
	}](t, env.Data).List
	if len(list) != 1 || list[0].ID != "D1" {
		t.Fatalf("disciples = %+v", list)
	}
}

func TestRequestIDReused(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc" {
		t.Fatalf("request id = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", requestIDMaxLen+1))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); len(got) > requestIDMaxLen {
		t.Fatalf("oversized request id kept: %q", got)
	}
}

func TestCancelBodyOptional(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/api/v1/leaders/L1/availability",
		gin.H{"day": "monday", "start": "09:00", "end": "12:00"})
	book := func(start, end string) string {
		t.Helper()
		status, env := do(t, r, http.MethodPost, "/api/v1/leaders/L1/meetings", gin.H{
			"disciple_id": "D1", "start": start, "end": end,
		})
		if status != http.StatusCreated {
			t.Fatalf("request: %d %s", status, env.Code)
		}
		return decode[meetingResponse](t, env.Data).ID
	}

	// Chunked bodies arrive without a Content-Length.
	id := book("2026-10-19T09:00:00Z", "2026-10-19T10:00:00Z")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/meetings/"+id+"/cancel", strings.NewReader(`{"reason":"travel"}`))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("chunked cancel: %d %s", w.Code, env.Code)
	}
	if got := decode[meetingResponse](t, env.Data); got.CancelReason != "travel" {
		t.Fatalf("reason = %q", got.CancelReason)
	}

	id = book("2026-10-19T10:00:00Z", "2026-10-19T11:00:00Z")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/meetings/"+id+"/cancel", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel without body: %d %s", w.Code, w.Body.String())
	}

	id = book("2026-10-19T11:00:00Z", "2026-10-19T12:00:00Z")
	status, env := do(t, r, http.MethodPost, "/api/v1/meetings/"+id+"/cancel", "not an object")
	if status != http.StatusBadRequest || env.Code != codeBadRequest {
		t.Fatalf("malformed body: %d %s", status, env.Code)
	}
}
