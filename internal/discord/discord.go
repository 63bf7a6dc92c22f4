package discord

type SlashCommandDefinition struct {
	Name        string
	Description string
}

type Client interface {
	UpsertGuildSlashCommands(guildID string, defs []SlashCommandDefinition) error
}
