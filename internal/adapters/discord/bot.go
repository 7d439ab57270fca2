package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Discord drops interactions that are not answered within three seconds.
const interactionTimeout = 2500 * time.Millisecond

// Bot is the Discord adapter.
type Bot struct {
	session *discordgo.Session
	guildID string
	handler *Handler
	logger  *zap.Logger
}

// NewBot creates the session; nothing connects until Run. An empty guildID
// registers the commands globally.
func NewBot(token, guildID string, handler *Handler, logger *zap.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	bot := &Bot{
		session: s,
		guildID: guildID,
		handler: handler,
		logger:  logger,
	}
	s.AddHandler(bot.handleInteraction)
	return bot, nil
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	data := b.handler.Handle(ctx, i)
	if data == nil {
		return
	}
	if err := respond(s, i.Interaction, data); err != nil {
		b.logger.Warn("discord respond failed",
			zap.String("command", i.ApplicationCommandData().Name), zap.Error(err))
	}
}

// Run connects, registers the slash commands and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	appID := b.session.State.User.ID
	if _, err := b.session.ApplicationCommandBulkOverwrite(appID, b.guildID, Commands()); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	b.logger.Info("discord bot online",
		zap.String("user", b.session.State.User.Username), zap.String("guild_id", b.guildID))

	<-ctx.Done()
	b.logger.Info("discord bot stopping")
	return nil
}
