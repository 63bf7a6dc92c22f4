package interaction

import (
	"encoding/json"
	"fmt"
)

const (
	modalCustomID = "event_info"

	fieldTitle       = "title"
	fieldDescription = "description"
	fieldDatetime    = "datetime"
	fieldRoom        = "room"
)

type modalData struct {
	CustomID   string     `json:"custom_id"`
	Components []modalRow `json:"components"`
}

type modalRow struct {
	Components []modalField `json:"components"`
}

type modalField struct {
	CustomID string  `json:"custom_id"`
	Value    *string `json:"value"`
}

// submission is the raw text of an event form; nothing in it is parsed yet.
type submission struct {
	Title       string
	Description string
	Datetime    string
	Room        string
}

func decodeModalData(raw json.RawMessage) (modalData, error) {
	var data modalData
	if len(raw) == 0 || string(raw) == "null" {
		return data, fmt.Errorf("%w: modal submit without data", ErrMalformedPayload)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("%w: modal data: %v", ErrMalformedPayload, err)
	}
	return data, nil
}

// parseSubmission collects the four event fields from a modal. Unknown fields
// are ignored; an empty value counts as present, an absent one does not.
func parseSubmission(data modalData) (submission, error) {
	if data.CustomID != modalCustomID {
		return submission{}, fmt.Errorf("%w: got %q", ErrWrongModalKind, data.CustomID)
	}

	values := make(map[string]string, 4)
	for _, row := range data.Components {
		for _, field := range row.Components {
			if field.Value == nil {
				continue
			}
			switch field.CustomID {
			case fieldTitle, fieldDescription, fieldDatetime, fieldRoom:
				values[field.CustomID] = *field.Value
			}
		}
	}

	for _, id := range []string{fieldTitle, fieldDescription, fieldDatetime, fieldRoom} {
		if _, ok := values[id]; !ok {
			return submission{}, fmt.Errorf("%w: field %q", ErrIncompleteSubmission, id)
		}
	}
	return submission{
		Title:       values[fieldTitle],
		Description: values[fieldDescription],
		Datetime:    values[fieldDatetime],
		Room:        values[fieldRoom],
	}, nil
}
