package interaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Carbonhell/SmartDisplay/internal/metrics"
	"github.com/Carbonhell/SmartDisplay/internal/registry"
	"github.com/Carbonhell/SmartDisplay/internal/repository"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const selectedRoomCustomID = "selected_room"

var (
	// ErrMalformedPayload means the body cannot be classified into a stage.
	ErrMalformedPayload     = errors.New("malformed interaction payload")
	ErrWrongModalKind       = errors.New("unexpected modal custom_id")
	ErrIncompleteSubmission = errors.New("incomplete event submission")
	ErrInvalidLocation      = errors.New("invalid room label")
)

const (
	stagePing      = "ping"
	stageCommand   = "command"
	stageComponent = "component"
	stageModal     = "modal"
	stageUnknown   = "unknown"
)

type envelope struct {
	Type discordgo.InteractionType `json:"type"`
	Data json.RawMessage           `json:"data"`
}

type componentData struct {
	CustomID string   `json:"custom_id"`
	Values   []string `json:"values"`
}

// Handler drives the event creation flow. It keeps nothing between calls:
// every step is classified from its own payload, and the room picked in the
// select menu travels back to the client inside the modal.
type Handler struct {
	registry registry.Registry
	repo     repository.EventRepository
	location *time.Location
	newID    func() string
}

func NewHandler(reg registry.Registry, repo repository.EventRepository, location *time.Location) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		registry: reg,
		repo:     repo,
		location: location,
		newID:    uuid.NewString,
	}
}

// Handle classifies one webhook body and returns the response to send back.
// Errors wrapping ErrMalformedPayload are bad requests; any other error is a
// dependency failure for this invocation.
func (h *Handler) Handle(ctx context.Context, body []byte) (*discordgo.InteractionResponse, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		metrics.Interactions.WithLabelValues(stageUnknown, "malformed").Inc()
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	stage, resp, err := h.dispatch(ctx, env)
	switch {
	case errors.Is(err, ErrMalformedPayload):
		metrics.Interactions.WithLabelValues(stage, "malformed").Inc()
	case err != nil:
		metrics.Interactions.WithLabelValues(stage, "error").Inc()
	default:
		metrics.Interactions.WithLabelValues(stage, "ok").Inc()
	}
	return resp, err
}

func (h *Handler) dispatch(ctx context.Context, env envelope) (string, *discordgo.InteractionResponse, error) {
	switch env.Type {
	case discordgo.InteractionPing:
		return stagePing, &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}, nil
	case discordgo.InteractionApplicationCommand:
		resp, err := h.handleCommand(ctx)
		return stageCommand, resp, err
	case discordgo.InteractionMessageComponent:
		resp, err := h.handleComponent(env.Data)
		return stageComponent, resp, err
	case discordgo.InteractionModalSubmit:
		resp, err := h.handleModalSubmit(ctx, env.Data)
		return stageModal, resp, err
	default:
		return stageUnknown, nil, fmt.Errorf("%w: unsupported interaction type %d", ErrMalformedPayload, env.Type)
	}
}

func (h *Handler) handleCommand(ctx context.Context) (*discordgo.InteractionResponse, error) {
	devices, err := h.registry.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	locations := buildLocationOptions(devices)
	slog.Info("room options built", "devices", len(devices), "options", len(locations))
	if len(locations) == 0 {
		return messageResponse(messageNoRooms), nil
	}

	options := make([]discordgo.SelectMenuOption, 0, len(locations))
	for _, l := range locations {
		label := l.Label()
		options = append(options, discordgo.SelectMenuOption{Label: label, Value: label})
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: messageSelectRoom,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							MenuType:    discordgo.StringSelectMenu,
							CustomID:    selectedRoomCustomID,
							Placeholder: messageSelectRoomHint,
							Options:     options,
						},
					},
				},
			},
		},
	}, nil
}

func (h *Handler) handleComponent(raw json.RawMessage) (*discordgo.InteractionResponse, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: component interaction without data", ErrMalformedPayload)
	}
	var data componentData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: component data: %v", ErrMalformedPayload, err)
	}
	if data.CustomID != selectedRoomCustomID {
		return nil, fmt.Errorf("%w: unexpected component custom_id %q", ErrMalformedPayload, data.CustomID)
	}
	if len(data.Values) == 0 {
		return nil, fmt.Errorf("%w: no room selected", ErrMalformedPayload)
	}
	room := data.Values[0]
	slog.Debug("room selected", "room", room)
	return eventModal(room), nil
}

func eventModal(room string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalCustomID,
			Title:    modalTitle,
			Components: []discordgo.MessageComponent{
				textInputRow(discordgo.TextInput{CustomID: fieldTitle, Label: modalLabelTitle, Style: discordgo.TextInputShort, Required: true}),
				textInputRow(discordgo.TextInput{CustomID: fieldDescription, Label: modalLabelDesc, Style: discordgo.TextInputParagraph}),
				textInputRow(discordgo.TextInput{CustomID: fieldDatetime, Label: modalLabelDatetime, Style: discordgo.TextInputShort, Placeholder: modalDatetimeSample, Required: true}),
				textInputRow(discordgo.TextInput{CustomID: fieldRoom, Label: modalLabelRoom, Style: discordgo.TextInputShort, Value: room, Required: true}),
			},
		},
	}
}

func textInputRow(input discordgo.TextInput) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{input}}
}

func (h *Handler) handleModalSubmit(ctx context.Context, raw json.RawMessage) (*discordgo.InteractionResponse, error) {
	data, err := decodeModalData(raw)
	if err != nil {
		return nil, err
	}
	sub, err := parseSubmission(data)
	if err != nil {
		slog.Warn("event submission rejected", "error", err)
		if errors.Is(err, ErrWrongModalKind) {
			return messageResponse(messageWrongModal), nil
		}
		return messageResponse(messageIncompleteModal), nil
	}

	timestamp, err := repository.ParseDatetime(sub.Datetime, h.location)
	if err != nil {
		return nil, fmt.Errorf("parse datetime %q: %w", sub.Datetime, err)
	}
	location, err := repository.ParseLocation(sub.Room)
	if err != nil {
		slog.Warn("event submission rejected", "error", fmt.Errorf("%w: %v", ErrInvalidLocation, err))
		return messageResponse(invalidRoomMessage(sub.Room)), nil
	}

	event := repository.Event{
		ID:          h.newID(),
		Title:       sub.Title,
		Description: sub.Description,
		Datetime:    sub.Datetime,
		Timestamp:   timestamp,
		Building:    location.Building,
		Room:        location.Room,
	}
	if err := h.repo.PutEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("persist event %s: %w", event.ID, err)
	}
	metrics.EventsCreated.Inc()
	slog.Info("event created", "event_id", event.ID, "building", event.Building, "room", event.Room, "timestamp", event.Timestamp)
	return messageResponse(messageEventSaved), nil
}

func messageResponse(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	}
}
