package discord

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
)

type echoT struct{}

func (echoT) T(_, key string, _ map[string]any) string { return key }

func TestParseSlot(t *testing.T) {
	start, end, err := ParseSlot("19/10/2026", "20:00", "21:00", time.UTC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !start.Equal(time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)) || end.Sub(start) != time.Hour {
		t.Fatalf("unexpected slot %s-%s", start, end)
	}

	_, end, err = ParseSlot("25/10/2026", "23:00", "24:00", time.UTC)
	if err != nil {
		t.Fatalf("parse midnight end: %v", err)
	}
	if !end.Equal(time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %s", end)
	}

	cases := []struct {
		date, start, end string
		want             error
	}{
		{"2026-10-19", "20:00", "21:00", ErrBadDate},
		{"31/02/2026", "20:00", "21:00", ErrBadDate},
		{"19/10/2026", "8pm", "21:00", ErrBadTime},
		{"19/10/2026", "24:00", "24:00", ErrBadTime},
		{"19/10/2026", "20:00", "21:60", ErrBadTime},
	}
	for _, c := range cases {
		if _, _, err := ParseSlot(c.date, c.start, c.end, time.UTC); !errors.Is(err, c.want) {
			t.Errorf("ParseSlot(%q, %q, %q) = %v, want %v", c.date, c.start, c.end, err, c.want)
		}
	}
}

func TestErrorKey(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("x: %w", ErrBadDate), "input.bad_date"},
		{fmt.Errorf("request: %w", domain.ErrConflict), "errors.conflict"},
		{domain.ErrMeetingNotFound, "errors.meeting_not_found"},
		{errors.New("pq: connection refused"), "errors.internal"},
	}
	for _, tt := range tests {
		if got := ErrorKey(tt.err); got != tt.want {
			t.Errorf("ErrorKey(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
	if got := ErrorMessage(echoT{}, "en", domain.ErrOverlap); got != "errors.overlap" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildMeetingsEmbed(t *testing.T) {
	summaries := []entities.MeetingSummary{{
		ID: "m1", DiscipleName: "Felix", Day: time.Monday,
		Date:  time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Start: 20 * 60, End: 21 * 60, State: domain.StatePending,
	}}
	embed := BuildMeetingsEmbed(echoT{}, "en", summaries, time.UTC)
	for _, want := range []string{"weekday.1", "19/10/2026", "20:00-21:00", "Felix", "`m1`"} {
		if !strings.Contains(embed.Description, want) {
			t.Errorf("description %q lacks %q", embed.Description, want)
		}
	}
	if empty := BuildMeetingsEmbed(echoT{}, "en", nil, time.UTC); empty.Description != "meetings.empty" {
		t.Fatalf("empty list: %q", empty.Description)
	}
}

func TestBuildDashboardEmbed(t *testing.T) {
	embed := BuildDashboardEmbed(echoT{}, "en", entities.StateCounts{Confirmed: 2, Pending: 1, Available: 3})
	if len(embed.Fields) != 3 || embed.Fields[0].Value != "2" || embed.Fields[1].Value != "1" || embed.Fields[2].Value != "3" {
		t.Fatalf("unexpected fields %+v", embed.Fields)
	}
}

func TestTruncateLines(t *testing.T) {
	lines := []string{strings.Repeat("a", 10), strings.Repeat("b", 10), strings.Repeat("c", 10)}
	got := truncateLines(lines, 25)
	if !strings.HasSuffix(got, "… (+1)") {
		t.Fatalf("got %q", got)
	}
}

func TestSubcommand(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "availability",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name: "add",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "day", Type: discordgo.ApplicationCommandOptionString, Value: "monday"},
				{Name: "leader", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
				{Name: "enabled", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
			},
		}},
	}
	name, opts := Subcommand(data)
	if name != "add" || opts.String("day") != "monday" || opts.UserID("leader") != "42" {
		t.Fatalf("unexpected parse %q %+v", name, opts)
	}
	if v, ok := opts.Bool("enabled"); !ok || !v {
		t.Fatal("expected enabled=true")
	}
	if opts.String("missing") != "" {
		t.Fatal("missing option should be empty")
	}
}
