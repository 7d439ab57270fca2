package discord

import "github.com/bwmarrin/discordgo"

// Options indexes slash command options by name.
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

func NewOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	m := make(Options, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// String returns the option value or "" when absent.
func (o Options) String(name string) string {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionString {
		return opt.StringValue()
	}
	return ""
}

func (o Options) Bool(name string) (bool, bool) {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionBoolean {
		return opt.BoolValue(), true
	}
	return false, false
}

// UserID returns the snowflake of a user option without a session lookup.
func (o Options) UserID(name string) string {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionUser {
		if id, ok := opt.Value.(string); ok {
			return id
		}
	}
	return ""
}

// Subcommand splits a command into its subcommand name and options.
func Subcommand(data discordgo.ApplicationCommandInteractionData) (string, Options) {
	if len(data.Options) == 1 && data.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		sub := data.Options[0]
		return sub.Name, NewOptions(sub.Options)
	}
	return "", NewOptions(data.Options)
}
