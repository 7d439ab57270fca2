package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/output"
)

const (
	embedColor = 0x5865F2
	// Discord rejects embeds whose description exceeds 4096 characters.
	maxDescription = 4000
)

var stateEmoji = map[domain.MeetingState]string{
	domain.StatePending:   "🕒",
	domain.StateConfirmed: "✅",
	domain.StateCancelled: "❌",
	domain.StateCompleted: "🏁",
}

// Weekday renders a weekday name in locale.
func Weekday(tr output.T, locale string, d time.Weekday) string {
	return tr.T(locale, "weekday."+strconv.Itoa(int(d)), nil)
}

// State renders a meeting state in locale.
func State(tr output.T, locale string, s domain.MeetingState) string {
	return tr.T(locale, "state."+string(s), nil)
}

// BuildDashboardEmbed shows the Confirmed/Pending/Available tabs as inline fields.
func BuildDashboardEmbed(tr output.T, locale string, counts entities.StateCounts) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "📊 " + tr.T(locale, "dashboard.title", nil),
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: tr.T(locale, "dashboard.confirmed", nil), Value: strconv.Itoa(counts.Confirmed), Inline: true},
			{Name: tr.T(locale, "dashboard.pending", nil), Value: strconv.Itoa(counts.Pending), Inline: true},
			{Name: tr.T(locale, "dashboard.available", nil), Value: strconv.Itoa(counts.Available), Inline: true},
		},
	}
}

// BuildMeetingsEmbed lists meeting summaries, one line each.
func BuildMeetingsEmbed(tr output.T, locale string, meetings []entities.MeetingSummary, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📅 " + tr.T(locale, "meetings.title", nil),
		Color: embedColor,
	}
	if len(meetings) == 0 {
		embed.Description = tr.T(locale, "meetings.empty", nil)
		return embed
	}
	lines := make([]string, 0, len(meetings))
	for _, m := range meetings {
		lines = append(lines, fmt.Sprintf("%s **%s** %s %s-%s • %s • `%s`",
			stateEmoji[m.State],
			Weekday(tr, locale, m.Day), FormatDate(m.Date, loc), m.Start, m.End,
			m.DiscipleName, m.ID))
	}
	embed.Description = truncateLines(lines, maxDescription)
	return embed
}

// BuildAvailabilityEmbed lists a leader's weekly windows.
func BuildAvailabilityEmbed(tr output.T, locale string, calendar *entities.AvailabilityCalendar) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🗓️ " + tr.T(locale, "availability.title", nil),
		Color: embedColor,
	}
	if calendar == nil || len(calendar.Windows) == 0 {
		embed.Description = tr.T(locale, "availability.empty", nil)
		return embed
	}
	lines := make([]string, 0, len(calendar.Windows))
	for _, w := range calendar.Windows {
		lines = append(lines, fmt.Sprintf("**%s** %s-%s • `%s`", Weekday(tr, locale, w.Day), w.Start, w.End, w.ID))
	}
	embed.Description = truncateLines(lines, maxDescription)
	if calendar.AutoConfirm {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: tr.T(locale, "availability.autoconfirm_on", nil)}
	}
	return embed
}

func truncateLines(lines []string, limit int) string {
	var b strings.Builder
	for i, line := range lines {
		if b.Len()+len(line)+1 > limit {
			b.WriteString(fmt.Sprintf("… (+%d)", len(lines)-i))
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
