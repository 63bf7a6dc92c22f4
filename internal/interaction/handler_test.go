package interaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Carbonhell/SmartDisplay/internal/registry"
	"github.com/Carbonhell/SmartDisplay/internal/repository"
	"github.com/bwmarrin/discordgo"
)

type mockRegistry struct {
	devices []registry.Device
	err     error
	calls   int
}

func (m *mockRegistry) ListDevices(_ context.Context) ([]registry.Device, error) {
	m.calls++
	return m.devices, m.err
}

type mockRepository struct {
	putCalls  []repository.Event
	scanCalls int
	putErr    error
}

func (m *mockRepository) PutEvent(_ context.Context, event repository.Event) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.putCalls = append(m.putCalls, event)
	return nil
}

func (m *mockRepository) ScanEvents(_ context.Context) ([]repository.Event, error) {
	m.scanCalls++
	return nil, nil
}

func newTestHandler(reg *mockRegistry, repo *mockRepository) *Handler {
	h := NewHandler(reg, repo, time.UTC)
	h.newID = func() string { return "event-1" }
	return h
}

func device(attrs map[string]string) registry.Device {
	return registry.Device{Attributes: attrs}
}

func responseJSON(t *testing.T, resp *discordgo.InteractionResponse) map[string]any {
	t.Helper()
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func modalBody(customID string, fields map[string]any) string {
	rows := make([]map[string]any, 0, len(fields))
	for id, value := range fields {
		field := map[string]any{"type": 4, "custom_id": id}
		if value != nil {
			field["value"] = value
		}
		rows = append(rows, map[string]any{"type": 1, "components": []map[string]any{field}})
	}
	b, _ := json.Marshal(map[string]any{
		"type": 5,
		"data": map[string]any{"custom_id": customID, "components": rows},
	})
	return string(b)
}

func validModalFields() map[string]any {
	return map[string]any{
		"title":       "Lab",
		"description": "Weekly sync",
		"datetime":    "2030-01-01 10:00",
		"room":        "F3 - P3",
	}
}

func TestHandle_PingRespondsPongWithoutDependencies(t *testing.T) {
	reg := &mockRegistry{}
	repo := &mockRepository{}
	h := newTestHandler(reg, repo)

	resp, err := h.Handle(context.Background(), []byte(`{"type":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	if string(b) != `{"type":1}` {
		t.Fatalf("unexpected pong body: %s", b)
	}
	if reg.calls != 0 || len(repo.putCalls) != 0 || repo.scanCalls != 0 {
		t.Fatalf("expected no dependency calls, got registry=%d put=%d scan=%d", reg.calls, len(repo.putCalls), repo.scanCalls)
	}
}

func TestHandle_CommandBuildsDeduplicatedRoomOptions(t *testing.T) {
	reg := &mockRegistry{devices: []registry.Device{
		device(map[string]string{"building": "F3", "room": "P3"}),
		device(map[string]string{"building": "F3", "room": "P3"}),
		device(map[string]string{"building": "F3", "room": "P1"}),
		device(map[string]string{"building": "A1", "room": "Aula Magna"}),
		device(map[string]string{"room": "orphan"}),
		device(map[string]string{"building": "B2"}),
		device(nil),
	}}
	h := newTestHandler(reg, &mockRepository{})

	resp, err := h.Handle(context.Background(), []byte(`{"type":2,"data":{"name":"create_event"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Fatalf("unexpected response type: %d", resp.Type)
	}

	out := responseJSON(t, resp)
	data := out["data"].(map[string]any)
	rows := data["components"].([]any)
	if len(rows) != 1 {
		t.Fatalf("expected one action row, got %d", len(rows))
	}
	menu := rows[0].(map[string]any)["components"].([]any)[0].(map[string]any)
	if menu["custom_id"] != "selected_room" {
		t.Fatalf("unexpected select custom_id: %v", menu["custom_id"])
	}
	if menu["type"] != float64(3) {
		t.Fatalf("unexpected select type: %v", menu["type"])
	}
	options := menu["options"].([]any)
	got := make([]string, 0, len(options))
	for _, o := range options {
		opt := o.(map[string]any)
		if opt["label"] != opt["value"] {
			t.Fatalf("label and value differ: %v", opt)
		}
		got = append(got, opt["label"].(string))
	}
	want := []string{"A1 - Aula Magna", "F3 - P1", "F3 - P3"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected options: %v", got)
	}
}

func TestHandle_CommandWithoutRoomsSendsNotice(t *testing.T) {
	h := newTestHandler(&mockRegistry{}, &mockRepository{})

	resp, err := h.Handle(context.Background(), []byte(`{"type":2,"data":{"name":"create_event"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data == nil || resp.Data.Content != messageNoRooms || len(resp.Data.Components) != 0 {
		t.Fatalf("unexpected response: %+v", resp.Data)
	}
}

func TestHandle_CommandRegistryFailureIsFatal(t *testing.T) {
	h := newTestHandler(&mockRegistry{err: errors.New("iot unreachable")}, &mockRepository{})

	_, err := h.Handle(context.Background(), []byte(`{"type":2,"data":{"name":"create_event"}}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("registry failure must not be reported as malformed: %v", err)
	}
}

func TestHandle_ComponentOpensPrefilledModal(t *testing.T) {
	h := newTestHandler(&mockRegistry{}, &mockRepository{})

	resp, err := h.Handle(context.Background(), []byte(`{"type":3,"data":{"custom_id":"selected_room","component_type":3,"values":["F3 - P3","ignored"]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Type != discordgo.InteractionResponseModal {
		t.Fatalf("unexpected response type: %d", resp.Type)
	}

	out := responseJSON(t, resp)
	data := out["data"].(map[string]any)
	if data["custom_id"] != "event_info" {
		t.Fatalf("unexpected modal custom_id: %v", data["custom_id"])
	}
	rows := data["components"].([]any)
	if len(rows) != 4 {
		t.Fatalf("expected four fields, got %d", len(rows))
	}
	fields := make(map[string]map[string]any, len(rows))
	for _, r := range rows {
		input := r.(map[string]any)["components"].([]any)[0].(map[string]any)
		fields[input["custom_id"].(string)] = input
	}
	for _, id := range []string{"title", "description", "datetime", "room"} {
		if _, ok := fields[id]; !ok {
			t.Fatalf("missing modal field %q", id)
		}
	}
	if fields["description"]["style"] != float64(discordgo.TextInputParagraph) {
		t.Fatalf("expected paragraph description, got %v", fields["description"]["style"])
	}
	if !strings.Contains(fields["datetime"]["label"].(string), "YYYY-MM-DD HH:mm") {
		t.Fatalf("datetime label must carry the format: %v", fields["datetime"]["label"])
	}
	if fields["room"]["value"] != "F3 - P3" {
		t.Fatalf("room not prefilled: %v", fields["room"]["value"])
	}
}

func TestHandle_MalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"invalid json":          `{"type":`,
		"missing type":          `{}`,
		"unknown type":          `{"type":7}`,
		"autocomplete":          `{"type":4,"data":{}}`,
		"component no data":     `{"type":3}`,
		"component no id":       `{"type":3,"data":{"values":["F3 - P3"]}}`,
		"component wrong id":    `{"type":3,"data":{"custom_id":"other","values":["F3 - P3"]}}`,
		"component scalar":      `{"type":3,"data":{"custom_id":"selected_room","values":"F3 - P3"}}`,
		"component empty":       `{"type":3,"data":{"custom_id":"selected_room","values":[]}}`,
		"component no values":   `{"type":3,"data":{"custom_id":"selected_room"}}`,
		"component number":      `{"type":3,"data":{"custom_id":"selected_room","values":[3]}}`,
		"modal no data":         `{"type":5}`,
		"modal non-string data": `{"type":5,"data":{"custom_id":"event_info","components":"x"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &mockRepository{}
			h := newTestHandler(&mockRegistry{}, repo)
			_, err := h.Handle(context.Background(), []byte(body))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected malformed payload error, got %v", err)
			}
			if len(repo.putCalls) != 0 {
				t.Fatalf("expected no persistence, got %d", len(repo.putCalls))
			}
		})
	}
}

func TestHandle_ModalSubmitPersistsEvent(t *testing.T) {
	repo := &mockRepository{}
	h := newTestHandler(&mockRegistry{}, repo)

	resp, err := h.Handle(context.Background(), []byte(modalBody("event_info", validModalFields())))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data == nil || resp.Data.Content != messageEventSaved {
		t.Fatalf("unexpected response: %+v", resp.Data)
	}
	if len(repo.putCalls) != 1 {
		t.Fatalf("expected one put, got %d", len(repo.putCalls))
	}
	got := repo.putCalls[0]
	want := repository.Event{
		ID:          "event-1",
		Title:       "Lab",
		Description: "Weekly sync",
		Datetime:    "2030-01-01 10:00",
		Timestamp:   time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC).Unix(),
		Building:    "F3",
		Room:        "P3",
	}
	if got != want {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestHandle_ModalTimestampMatchesDatetime(t *testing.T) {
	for _, dt := range []string{"1999-12-31 23:59", "2024-02-29 00:00", "2030-06-15 08:30"} {
		repo := &mockRepository{}
		h := newTestHandler(&mockRegistry{}, repo)
		fields := validModalFields()
		fields["datetime"] = dt

		if _, err := h.Handle(context.Background(), []byte(modalBody("event_info", fields))); err != nil {
			t.Fatalf("unexpected error for %s: %v", dt, err)
		}
		parsed, err := time.Parse("2006-01-02 15:04", dt)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", dt, err)
		}
		if repo.putCalls[0].Timestamp != parsed.Unix() {
			t.Fatalf("timestamp %d does not match %s", repo.putCalls[0].Timestamp, dt)
		}
	}
}

func TestHandle_ModalUsesConfiguredTimezone(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	repo := &mockRepository{}
	h := NewHandler(&mockRegistry{}, repo, rome)

	if _, err := h.Handle(context.Background(), []byte(modalBody("event_info", validModalFields()))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2030, 1, 1, 10, 0, 0, 0, rome).Unix()
	if repo.putCalls[0].Timestamp != want {
		t.Fatalf("expected %d, got %d", want, repo.putCalls[0].Timestamp)
	}
	if repo.putCalls[0].ID == "" {
		t.Fatal("expected generated event id")
	}
}

func TestHandle_ModalRejectsUnsplittableRoom(t *testing.T) {
	for _, room := range []string{"F3P3", "F3-P3", "F3 - P3 - P4"} {
		repo := &mockRepository{}
		h := newTestHandler(&mockRegistry{}, repo)
		fields := validModalFields()
		fields["room"] = room

		resp, err := h.Handle(context.Background(), []byte(modalBody("event_info", fields)))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", room, err)
		}
		if resp.Data == nil || resp.Data.Content != invalidRoomMessage(room) {
			t.Fatalf("unexpected response for %q: %+v", room, resp.Data)
		}
		if len(repo.putCalls) != 0 {
			t.Fatalf("expected no persistence for %q", room)
		}
	}
}

func TestHandle_ModalMissingFieldIsRejected(t *testing.T) {
	for _, missing := range []string{"title", "description", "datetime", "room"} {
		repo := &mockRepository{}
		h := newTestHandler(&mockRegistry{}, repo)
		fields := validModalFields()
		fields[missing] = nil

		resp, err := h.Handle(context.Background(), []byte(modalBody("event_info", fields)))
		if err != nil {
			t.Fatalf("unexpected error without %s: %v", missing, err)
		}
		if resp.Data == nil || resp.Data.Content != messageIncompleteModal {
			t.Fatalf("unexpected response without %s: %+v", missing, resp.Data)
		}
		if len(repo.putCalls) != 0 {
			t.Fatalf("expected no persistence without %s", missing)
		}
	}
}

func TestHandle_ModalAcceptsEmptyDescription(t *testing.T) {
	repo := &mockRepository{}
	h := newTestHandler(&mockRegistry{}, repo)
	fields := validModalFields()
	fields["description"] = ""
	fields["notes"] = "ignored"

	if _, err := h.Handle(context.Background(), []byte(modalBody("event_info", fields))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.putCalls) != 1 || repo.putCalls[0].Description != "" {
		t.Fatalf("unexpected puts: %+v", repo.putCalls)
	}
}

func TestHandle_ModalWrongKind(t *testing.T) {
	repo := &mockRepository{}
	h := newTestHandler(&mockRegistry{}, repo)

	resp, err := h.Handle(context.Background(), []byte(modalBody("feedback", validModalFields())))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data == nil || resp.Data.Content != messageWrongModal {
		t.Fatalf("unexpected response: %+v", resp.Data)
	}
	if len(repo.putCalls) != 0 {
		t.Fatal("expected no persistence")
	}
}

func TestHandle_ModalUnparseableDatetimeIsFatal(t *testing.T) {
	repo := &mockRepository{}
	h := newTestHandler(&mockRegistry{}, repo)
	fields := validModalFields()
	fields["datetime"] = "next monday"

	_, err := h.Handle(context.Background(), []byte(modalBody("event_info", fields)))
	if err == nil || errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected dependency failure, got %v", err)
	}
	if len(repo.putCalls) != 0 {
		t.Fatal("expected no persistence")
	}
}

func TestHandle_ModalStoreFailureIsFatal(t *testing.T) {
	repo := &mockRepository{putErr: fmt.Errorf("throttled")}
	h := newTestHandler(&mockRegistry{}, repo)

	_, err := h.Handle(context.Background(), []byte(modalBody("event_info", validModalFields())))
	if err == nil || !strings.Contains(err.Error(), "throttled") {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestSlashCommandDefinitions(t *testing.T) {
	defs := SlashCommandDefinitions()
	if len(defs) != 1 || defs[0].Name != "create_event" || defs[0].Description == "" {
		t.Fatalf("unexpected definitions: %+v", defs)
	}
}
