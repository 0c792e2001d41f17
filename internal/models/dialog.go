// internal/models/dialog.go
package models

// Lex-style wire types for the dialog webhook. The shapes mirror what the
// bot platform sends and expects back, so the JSON tags are load-bearing.

// DialogEvent is the inbound webhook payload for one conversation turn.
type DialogEvent struct {
	SessionState     SessionState      `json:"sessionState"`
	InvocationSource string            `json:"invocationSource,omitempty"`
	RequestAttribute map[string]string `json:"requestAttributes,omitempty"`
}

type SessionState struct {
	Intent            Intent            `json:"intent"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
	DialogAction      *DialogAction     `json:"dialogAction,omitempty"`
}

type Intent struct {
	Name  string           `json:"name"`
	Slots map[string]*Slot `json:"slots,omitempty"`
	State string           `json:"state,omitempty"`
}

type Slot struct {
	Value *SlotValue `json:"value,omitempty"`
}

type SlotValue struct {
	OriginalValue    string   `json:"originalValue,omitempty"`
	InterpretedValue string   `json:"interpretedValue"`
	ResolvedValues   []string `json:"resolvedValues,omitempty"`
}

type DialogAction struct {
	Type         string `json:"type"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
}

type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// DialogResponse is the outbound webhook payload.
type DialogResponse struct {
	SessionState SessionState `json:"sessionState"`
	Messages     []Message    `json:"messages,omitempty"`
}

// SlotValue returns the interpreted value for a slot key, or "" when the slot
// is absent or unfilled.
func (i *Intent) SlotValue(key string) string {
	if i == nil || i.Slots == nil {
		return ""
	}
	slot, ok := i.Slots[key]
	if !ok || slot == nil || slot.Value == nil {
		return ""
	}
	return slot.Value.InterpretedValue
}

// CloseResponse builds a terminal turn: the intent is marked fulfilled and the
// given message is spoken back.
func CloseResponse(event *DialogEvent, content string) *DialogResponse {
	intent := event.SessionState.Intent
	intent.State = "Fulfilled"

	return &DialogResponse{
		SessionState: SessionState{
			Intent:            intent,
			SessionAttributes: event.SessionState.SessionAttributes,
			DialogAction:      &DialogAction{Type: "Close"},
		},
		Messages: []Message{{ContentType: "PlainText", Content: content}},
	}
}

// ElicitSlotResponse builds a re-prompt turn asking the user to fill slotKey.
func ElicitSlotResponse(event *DialogEvent, slotKey, content string) *DialogResponse {
	intent := event.SessionState.Intent
	intent.State = "InProgress"

	return &DialogResponse{
		SessionState: SessionState{
			Intent:            intent,
			SessionAttributes: event.SessionState.SessionAttributes,
			DialogAction: &DialogAction{
				Type:         "ElicitSlot",
				SlotToElicit: slotKey,
			},
		},
		Messages: []Message{{ContentType: "PlainText", Content: content}},
	}
}
