package discord

import (
	"fmt"
	"log/slog"

	discordpkg "github.com/Carbonhell/SmartDisplay/internal/discord"
	"github.com/bwmarrin/discordgo"
)

// Client talks to the Discord REST API only. Interactions themselves arrive
// over the webhook, so no gateway connection is opened.
type Client struct {
	session       *discordgo.Session
	applicationID string
}

func NewClient(token, applicationID string) (discordpkg.Client, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &Client{session: s, applicationID: applicationID}, nil
}

func (c *Client) UpsertGuildSlashCommands(guildID string, defs []discordpkg.SlashCommandDefinition) error {
	if c.applicationID == "" {
		return fmt.Errorf("discord application id is not configured")
	}
	existing, err := c.session.ApplicationCommands(c.applicationID, guildID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if err := c.upsertGuildSlashCommand(guildID, def, existingByName); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertGuildSlashCommand(guildID string, def discordpkg.SlashCommandDefinition, existingByName map[string]*discordgo.ApplicationCommand) error {
	if def.Name == "" {
		return nil
	}
	payload := &discordgo.ApplicationCommand{
		Name:        def.Name,
		Description: def.Description,
		Type:        discordgo.ChatApplicationCommand,
	}
	cmd, ok := existingByName[def.Name]
	if !ok {
		slog.Info("creating slash command", "command", def.Name, "guild_id", guildID)
		_, err := c.session.ApplicationCommandCreate(c.applicationID, guildID, payload)
		return err
	}
	if cmd.Description == def.Description {
		return nil
	}
	slog.Info("updating slash command", "command", def.Name, "guild_id", guildID, "command_id", cmd.ID)
	_, err := c.session.ApplicationCommandEdit(c.applicationID, guildID, cmd.ID, payload)
	return err
}
