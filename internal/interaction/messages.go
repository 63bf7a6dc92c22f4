package interaction

import (
	"fmt"

	"github.com/Carbonhell/SmartDisplay/internal/discord"
)

const (
	slashCommandName        = "create_event"
	slashCommandDescription = "Create an event"

	messageSelectRoom     = "Select the room where the event will take place to fill in its details."
	messageSelectRoomHint = "Choose a room"
	messageNoRooms        = ":warning: **No rooms are registered yet.**"
	messageEventSaved     = ":white_check_mark: **Event saved.**"

	messageWrongModal        = ":warning: **This form is not an event form.**"
	messageIncompleteModal   = ":warning: **Some event details are missing, please submit the form again.**"
	messageInvalidRoomFormat = ":warning: **Room %q is not in the form \"building - room\".**"

	modalTitle          = "New event"
	modalLabelTitle     = "Title"
	modalLabelDesc      = "Description"
	modalLabelDatetime  = "Date and time (format: YYYY-MM-DD HH:mm)"
	modalLabelRoom      = "Room"
	modalDatetimeSample = "2030-01-01 10:00"
)

func invalidRoomMessage(label string) string {
	return fmt.Sprintf(messageInvalidRoomFormat, label)
}

// SlashCommandDefinitions lists the guild commands that start the flow.
func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{Name: slashCommandName, Description: slashCommandDescription},
	}
}
