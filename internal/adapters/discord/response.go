package discord

import (
	"github.com/bwmarrin/discordgo"
)

// caller identifies whoever triggered the interaction, in a guild or in DMs.
type caller struct {
	ID          string
	DisplayName string
}

func callerOf(i *discordgo.InteractionCreate) caller {
	if i.Member != nil && i.Member.User != nil {
		return caller{ID: i.Member.User.ID, DisplayName: resolveDisplayName(i.Member)}
	}
	if i.User != nil {
		name := i.User.GlobalName
		if name == "" {
			name = i.User.Username
		}
		return caller{ID: i.User.ID, DisplayName: name}
	}
	return caller{}
}

// Nick > GlobalName > Username
func resolveDisplayName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

func ephemeral(content string, embeds ...*discordgo.MessageEmbed) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: content,
		Embeds:  embeds,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
}

func respond(s *discordgo.Session, i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}
