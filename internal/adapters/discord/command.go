package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	pkgdiscord "mentorbook/pkg/discord"
)

const (
	cmdAvailability = "availability"
	cmdMeeting      = "meeting"
	cmdMeetings     = "meetings"
	cmdDashboard    = "dashboard"
)

func stringOpt(name, desc string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type: discordgo.ApplicationCommandOptionString, Name: name, Description: desc, Required: required,
	}
}

func subcommand(name, desc string, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type: discordgo.ApplicationCommandOptionSubCommand, Name: name, Description: desc, Options: opts,
	}
}

// Commands returns the slash commands registered at startup.
func Commands() []*discordgo.ApplicationCommand {
	stateChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.States))
	for _, s := range domain.States {
		stateChoices = append(stateChoices, &discordgo.ApplicationCommandOptionChoice{Name: string(s), Value: string(s)})
	}
	state := stringOpt("state", "Only meetings in this state", false)
	state.Choices = stateChoices

	return []*discordgo.ApplicationCommand{
		{
			Name:        cmdAvailability,
			Description: "Manage your weekly availability",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("add", "Open a weekly window",
					stringOpt("day", "Weekday, e.g. monday", true),
					stringOpt("start", "Start time, HH:MM", true),
					stringOpt("end", "End time, HH:MM (24:00 for midnight)", true),
				),
				subcommand("remove", "Close a weekly window",
					stringOpt("window", "Window id", true),
				),
				subcommand("list", "Show your weekly windows"),
				subcommand("autoconfirm", "Confirm new bookings automatically",
					&discordgo.ApplicationCommandOption{
						Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "On or off", Required: true,
					},
				),
			},
		},
		{
			Name:        cmdMeeting,
			Description: "Book and manage meetings",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("request", "Request a meeting with your leader",
					&discordgo.ApplicationCommandOption{
						Type: discordgo.ApplicationCommandOptionUser, Name: "leader", Description: "Your leader", Required: true,
					},
					stringOpt("date", "Date, DD/MM/YYYY", true),
					stringOpt("start", "Start time, HH:MM", true),
					stringOpt("end", "End time, HH:MM", true),
				),
				subcommand("confirm", "Confirm a pending meeting",
					stringOpt("id", "Meeting id", true),
				),
				subcommand("cancel", "Cancel a meeting",
					stringOpt("id", "Meeting id", true),
					stringOpt("reason", "Why", false),
				),
			},
		},
		{
			Name:        cmdMeetings,
			Description: "List the meetings booked with you",
			Options:     []*discordgo.ApplicationCommandOption{state},
		},
		{
			Name:        cmdDashboard,
			Description: "Confirmed, pending and open slots at a glance",
		},
	}
}

// Handle runs one slash command and returns the ephemeral reply.
func (h *Handler) Handle(ctx context.Context, i *discordgo.InteractionCreate) *discordgo.InteractionResponseData {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	data := i.ApplicationCommandData()
	who := callerOf(i)
	locale := h.tr.Match(string(i.Locale))
	if who.ID == "" {
		return ephemeral(h.tr.T(locale, "errors.invalid_argument", nil))
	}
	h.remember(ctx, who)

	sub, opts := pkgdiscord.Subcommand(data)
	var (
		reply *discordgo.InteractionResponseData
		err   error
	)
	switch data.Name {
	case cmdAvailability:
		reply, err = h.handleAvailability(ctx, locale, who, sub, opts)
	case cmdMeeting:
		reply, err = h.handleMeeting(ctx, locale, who, sub, opts)
	case cmdMeetings:
		reply, err = h.handleMeetings(ctx, locale, who, opts)
	case cmdDashboard:
		reply, err = h.handleDashboard(ctx, locale, who)
	default:
		return nil
	}
	if err != nil {
		if pkgdiscord.ErrorKey(err) == "errors.internal" {
			h.logger.Error("discord command failed",
				zap.String("command", data.Name), zap.String("subcommand", sub),
				zap.String("user_id", who.ID), zap.Error(err))
		}
		return ephemeral("⚠️ " + pkgdiscord.ErrorMessage(h.tr, locale, err))
	}
	return reply
}

// remember keeps the directory's display name in sync; failures only cost a
// prettier name, so they are logged and ignored.
func (h *Handler) remember(ctx context.Context, who caller) {
	if who.DisplayName == "" {
		return
	}
	if _, err := h.directory.UpsertPerson(ctx, entities.Person{ID: who.ID, DisplayName: who.DisplayName}); err != nil {
		h.logger.Warn("upsert display name", zap.String("user_id", who.ID), zap.Error(err))
	}
}

func (h *Handler) handleAvailability(ctx context.Context, locale string, who caller, sub string, opts pkgdiscord.Options) (*discordgo.InteractionResponseData, error) {
	switch sub {
	case "add":
		day, err := entities.ParseWeekday(opts.String("day"))
		if err != nil {
			return ephemeral(h.tr.T(locale, "input.bad_day", nil)), nil
		}
		start, err := entities.ParseTimeOfDay(opts.String("start"))
		if err != nil {
			return nil, pkgdiscord.ErrBadTime
		}
		end, err := entities.ParseTimeOfDay(opts.String("end"))
		if err != nil {
			return nil, pkgdiscord.ErrBadTime
		}
		w, err := h.availability.AddAvailability(ctx, who.ID, day, start, end)
		if err != nil {
			return nil, err
		}
		return ephemeral(h.tr.T(locale, "availability.added", map[string]any{
			"Day":   pkgdiscord.Weekday(h.tr, locale, w.Day),
			"Start": w.Start.String(),
			"End":   w.End.String(),
			"ID":    w.ID,
		})), nil
	case "remove":
		if err := h.availability.RemoveAvailability(ctx, who.ID, opts.String("window")); err != nil {
			return nil, err
		}
		return ephemeral(h.tr.T(locale, "availability.removed", nil)), nil
	case "list":
		calendar, err := h.availability.ListAvailability(ctx, who.ID)
		if err != nil {
			return nil, err
		}
		return ephemeral("", pkgdiscord.BuildAvailabilityEmbed(h.tr, locale, calendar)), nil
	case "autoconfirm":
		enabled, _ := opts.Bool("enabled")
		if err := h.availability.SetAutoConfirm(ctx, who.ID, enabled); err != nil {
			return nil, err
		}
		key := "availability.autoconfirm_off"
		if enabled {
			key = "availability.autoconfirm_on"
		}
		return ephemeral(h.tr.T(locale, key, nil)), nil
	}
	return nil, domain.ErrInvalidArgument
}

func (h *Handler) handleMeeting(ctx context.Context, locale string, who caller, sub string, opts pkgdiscord.Options) (*discordgo.InteractionResponseData, error) {
	switch sub {
	case "request":
		leaderID := opts.UserID("leader")
		start, end, err := pkgdiscord.ParseSlot(opts.String("date"), opts.String("start"), opts.String("end"), h.location)
		if err != nil {
			return nil, err
		}
		m, err := h.booking.RequestMeeting(ctx, leaderID, who.ID, start, end)
		if err != nil {
			return nil, err
		}
		return ephemeral(h.tr.T(locale, "meeting.requested", h.meetingData(locale, m))), nil
	case "confirm":
		id := opts.String("id")
		if err := h.requireRole(ctx, id, who, false); err != nil {
			return nil, err
		}
		if _, err := h.booking.ConfirmMeeting(ctx, id); err != nil {
			return nil, err
		}
		return ephemeral(h.tr.T(locale, "meeting.confirmed", nil)), nil
	case "cancel":
		id := opts.String("id")
		if err := h.requireRole(ctx, id, who, true); err != nil {
			return nil, err
		}
		if _, err := h.booking.CancelMeeting(ctx, id, opts.String("reason")); err != nil {
			return nil, err
		}
		return ephemeral(h.tr.T(locale, "meeting.cancelled", nil)), nil
	}
	return nil, domain.ErrInvalidArgument
}

// requireRole lets the leader act on a meeting, and the disciple too when
// allowDisciple is set.
func (h *Handler) requireRole(ctx context.Context, meetingID string, who caller, allowDisciple bool) error {
	m, err := h.booking.GetMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if m.LeaderID == who.ID || (allowDisciple && m.DiscipleID == who.ID) {
		return nil
	}
	return pkgdiscord.ErrForbidden
}

func (h *Handler) handleMeetings(ctx context.Context, locale string, who caller, opts pkgdiscord.Options) (*discordgo.InteractionResponseData, error) {
	var filter *domain.MeetingState
	if raw := opts.String("state"); raw != "" {
		s, err := domain.ParseMeetingState(raw)
		if err != nil {
			return ephemeral(h.tr.T(locale, "input.bad_state", nil)), nil
		}
		filter = &s
	}
	meetings, err := h.roster.ListMeetings(ctx, who.ID, filter)
	if err != nil {
		return nil, err
	}
	return ephemeral("", pkgdiscord.BuildMeetingsEmbed(h.tr, locale, meetings, h.location)), nil
}

func (h *Handler) handleDashboard(ctx context.Context, locale string, who caller) (*discordgo.InteractionResponseData, error) {
	counts, err := h.roster.CountByState(ctx, who.ID)
	if err != nil {
		return nil, err
	}
	return ephemeral("", pkgdiscord.BuildDashboardEmbed(h.tr, locale, counts)), nil
}

func (h *Handler) meetingData(locale string, m *entities.Meeting) map[string]any {
	start := m.ScheduledStart.In(h.location)
	end := m.ScheduledEnd.In(h.location)
	endLabel := entities.TimeOfDayOf(end)
	if endLabel == 0 && end.After(start) {
		endLabel = entities.EndOfDay
	}
	return map[string]any{
		"Leader": "<@" + m.LeaderID + ">",
		"Day":    pkgdiscord.Weekday(h.tr, locale, start.Weekday()),
		"Date":   pkgdiscord.FormatDate(start, h.location),
		"Start":  entities.TimeOfDayOf(start).String(),
		"End":    endLabel.String(),
		"State":  pkgdiscord.State(h.tr, locale, m.State),
		"ID":     m.ID,
	}
}
