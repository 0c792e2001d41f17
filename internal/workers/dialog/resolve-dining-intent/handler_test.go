// internal/workers/dialog/resolve-dining-intent/handler_test.go
package resolvediningintent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockRequestQueue struct {
	Sent    []string
	SendErr error
}

func (m *MockRequestQueue) SendMessage(ctx context.Context, body string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, body)
	return nil
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Enabled: true,
		Timeout: 5 * time.Second,
	}
}

func newTestHandler(queue *MockRequestQueue) *Handler {
	return NewHandler(createTestConfig(), nil, queue, logger.NewNoOpLogger())
}

func slot(value string) *models.Slot {
	if value == "" {
		return &models.Slot{}
	}
	return &models.Slot{Value: &models.SlotValue{InterpretedValue: value}}
}

func diningEvent(slots map[string]*models.Slot) *models.DialogEvent {
	return &models.DialogEvent{
		SessionState: models.SessionState{
			Intent: models.Intent{
				Name:  IntentDiningSuggestions,
				Slots: slots,
			},
		},
	}
}

func fullSlots() map[string]*models.Slot {
	return map[string]*models.Slot{
		"Location":   slot("Manhattan"),
		"Cuisine":    slot("italian"),
		"DiningTime": slot("7pm"),
		"PartySize":  slot("4"),
		"Email":      slot("a@b.com"),
	}
}

// ==========================
// Tests
// ==========================

func TestCannedIntents(t *testing.T) {
	tests := []struct {
		name    string
		intent  string
		message string
	}{
		{"greeting", IntentGreeting, "Hi there, how can I help?"},
		{"thanks", IntentThankYou, "You're welcome!"},
		{"thanks legacy spelling", IntentThankYouLegacy, "You're welcome!"},
		{"unknown intent falls back", "OrderPizzaIntent", "Sorry, I didn't quite understand that."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &MockRequestQueue{}
			handler := newTestHandler(queue)

			event := &models.DialogEvent{
				SessionState: models.SessionState{
					Intent: models.Intent{Name: tt.intent},
				},
			}

			resp, err := handler.Handle(context.Background(), event)

			require.NoError(t, err)
			assert.Equal(t, "Close", resp.SessionState.DialogAction.Type)
			assert.Equal(t, "Fulfilled", resp.SessionState.Intent.State)
			require.Len(t, resp.Messages, 1)
			assert.Equal(t, tt.message, resp.Messages[0].Content)
			assert.Empty(t, queue.Sent)
		})
	}
}

func TestMissingCuisineSlotIsConfigError(t *testing.T) {
	queue := &MockRequestQueue{}
	handler := newTestHandler(queue)

	slots := fullSlots()
	delete(slots, "Cuisine")

	resp, err := handler.Handle(context.Background(), diningEvent(slots))

	require.NoError(t, err)
	assert.Equal(t, "Close", resp.SessionState.DialogAction.Type)
	assert.Contains(t, resp.Messages[0].Content, "Config error")
	assert.Empty(t, queue.Sent)
}

func TestAllSlotsFilledEnqueuesRequest(t *testing.T) {
	queue := &MockRequestQueue{}
	handler := newTestHandler(queue)

	resp, err := handler.Handle(context.Background(), diningEvent(fullSlots()))

	require.NoError(t, err)
	assert.Equal(t, "Close", resp.SessionState.DialogAction.Type)
	assert.Equal(t, "Got it! I'll email you suggestions shortly.", resp.Messages[0].Content)

	require.Len(t, queue.Sent, 1)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(queue.Sent[0]), &payload))
	assert.Equal(t, "italian", payload["cuisine"])
	assert.Equal(t, "Manhattan", payload["location"])
	assert.Equal(t, "7pm", payload["dining_time"])
	assert.Equal(t, "a@b.com", payload["email"])
	assert.Equal(t, float64(4), payload["party_size"])
	assert.NotEmpty(t, payload["request_id"])
}

func TestNonNumericPartySizeForwardedVerbatim(t *testing.T) {
	queue := &MockRequestQueue{}
	handler := newTestHandler(queue)

	slots := fullSlots()
	slots["PartySize"] = slot("four")

	_, err := handler.Handle(context.Background(), diningEvent(slots))
	require.NoError(t, err)

	require.Len(t, queue.Sent, 1)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(queue.Sent[0]), &payload))
	assert.Equal(t, "four", payload["party_size"])
}

func TestElicitsFirstUnfilledSlot(t *testing.T) {
	tests := []struct {
		name       string
		emptySlots []string
		wantSlot   string
		wantPrompt string
	}{
		{"location missing", []string{"Location"}, "Location", "What is the city?"},
		{"cuisine missing", []string{"Cuisine"}, "Cuisine", "What is the cuisine?"},
		{"time missing", []string{"DiningTime"}, "DiningTime", "What is the time?"},
		{"party size missing", []string{"PartySize"}, "PartySize", "What is the party size?"},
		{"email missing", []string{"Email"}, "Email", "What is the email?"},
		{"order invariant: location wins over email", []string{"Location", "Email"}, "Location", "What is the city?"},
		{"order invariant: cuisine wins over party size", []string{"Cuisine", "PartySize"}, "Cuisine", "What is the cuisine?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &MockRequestQueue{}
			handler := newTestHandler(queue)

			slots := fullSlots()
			for _, key := range tt.emptySlots {
				slots[key] = slot("")
			}

			resp, err := handler.Handle(context.Background(), diningEvent(slots))

			require.NoError(t, err)
			require.NotNil(t, resp.SessionState.DialogAction)
			assert.Equal(t, "ElicitSlot", resp.SessionState.DialogAction.Type)
			assert.Equal(t, tt.wantSlot, resp.SessionState.DialogAction.SlotToElicit)
			assert.Equal(t, "InProgress", resp.SessionState.Intent.State)
			require.Len(t, resp.Messages, 1)
			assert.Equal(t, tt.wantPrompt, resp.Messages[0].Content)
			assert.Empty(t, queue.Sent)
		})
	}
}

func TestCaseInsensitiveSlotAliases(t *testing.T) {
	queue := &MockRequestQueue{}
	handler := newTestHandler(queue)

	slots := map[string]*models.Slot{
		"city":    slot("Brooklyn"),
		"CUISINE": slot("japanese"),
		"Time":    slot("19:00"),
		"People":  slot("2"),
		"emailid": slot("x@y.org"),
	}

	resp, err := handler.Handle(context.Background(), diningEvent(slots))

	require.NoError(t, err)
	assert.Equal(t, "Close", resp.SessionState.DialogAction.Type)
	require.Len(t, queue.Sent, 1)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(queue.Sent[0]), &payload))
	assert.Equal(t, "Brooklyn", payload["location"])
	assert.Equal(t, "japanese", payload["cuisine"])
	assert.Equal(t, "x@y.org", payload["email"])
}

func TestEnqueueFailurePropagates(t *testing.T) {
	queue := &MockRequestQueue{SendErr: errors.New("queue unavailable")}
	handler := newTestHandler(queue)

	_, err := handler.Handle(context.Background(), diningEvent(fullSlots()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENQUEUE_FAILED")
}

func TestResolverIsStateless(t *testing.T) {
	queue := &MockRequestQueue{}
	handler := newTestHandler(queue)

	first, err := handler.Handle(context.Background(), diningEvent(fullSlots()))
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), diningEvent(fullSlots()))
	require.NoError(t, err)

	assert.Equal(t, first.Messages, second.Messages)
	assert.Len(t, queue.Sent, 2)
}
