// internal/workers/dialog/resolve-dining-intent/handler.go
package resolvediningintent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/models"
	"dining-concierge/pkg/registry"

	"github.com/google/uuid"
)

// RequestQueue is the outbound side of the dialog: completed conversations
// become fulfillment requests on it.
type RequestQueue interface {
	SendMessage(ctx context.Context, body string) error
}

type Handler struct {
	config   *Config
	registry *registry.SlotRegistry
	queue    RequestQueue
	logger   logger.Logger
}

func NewHandler(config *Config, reg *registry.SlotRegistry, queue RequestQueue, log logger.Logger) *Handler {
	if reg == nil {
		reg = registry.Default()
	}
	return &Handler{
		config:   config,
		registry: reg,
		queue:    queue,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Handle resolves one dialog turn with the configured timeout.
func (h *Handler) Handle(ctx context.Context, event *models.DialogEvent) (*models.DialogResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	return h.execute(ctx, event)
}

func (h *Handler) execute(ctx context.Context, event *models.DialogEvent) (*models.DialogResponse, error) {
	intent := event.SessionState.Intent

	h.logger.Info("resolving dialog turn", map[string]interface{}{
		"intent":    intent.Name,
		"slotCount": len(intent.Slots),
	})

	switch intent.Name {
	case IntentGreeting:
		metrics.DialogTurns.WithLabelValues(intent.Name, "close").Inc()
		return models.CloseResponse(event, msgGreeting), nil

	case IntentThankYou, IntentThankYouLegacy:
		metrics.DialogTurns.WithLabelValues(intent.Name, "close").Inc()
		return models.CloseResponse(event, msgThanks), nil

	case IntentDiningSuggestions:
		return h.resolveDiningIntent(ctx, event)

	default:
		metrics.DialogTurns.WithLabelValues(intent.Name, "fallback").Inc()
		return models.CloseResponse(event, msgFallback), nil
	}
}

func (h *Handler) resolveDiningIntent(ctx context.Context, event *models.DialogEvent) (*models.DialogResponse, error) {
	intent := event.SessionState.Intent

	slotKeys := make([]string, 0, len(intent.Slots))
	for key := range intent.Slots {
		slotKeys = append(slotKeys, key)
	}

	// Fail fast when the conversation definition lacks a cuisine slot. No
	// amount of elicitation can recover from that.
	cuisineConcept, _ := h.registry.Find("cuisine")
	if _, ok := cuisineConcept.MatchKey(slotKeys); !ok {
		h.logger.Warn("cuisine slot missing from intent configuration", map[string]interface{}{
			"slotKeys": slotKeys,
		})
		metrics.DialogTurns.WithLabelValues(intent.Name, "config_error").Inc()
		return models.CloseResponse(event,
			"Config error: please add a 'Cuisine' slot to this intent (custom list)."), nil
	}

	values := make(map[string]string, len(h.registry.Concepts))

	// Required concepts are walked in registry order. The first empty one
	// decides the next action, so conversations always collect answers in
	// the same sequence.
	for _, concept := range h.registry.Concepts {
		if !concept.Required {
			continue
		}

		key, found := concept.MatchKey(slotKeys)
		value := ""
		if found {
			value = intent.SlotValue(key)
		}
		values[concept.Concept] = value

		if value != "" {
			continue
		}

		if !found {
			key = concept.FallbackKey()
		}
		if _, present := intent.Slots[key]; !present {
			metrics.DialogTurns.WithLabelValues(intent.Name, "config_error").Inc()
			return models.CloseResponse(event,
				fmt.Sprintf("Config error: slot '%s' is missing from the intent.", key)), nil
		}

		metrics.DialogTurns.WithLabelValues(intent.Name, "elicit_slot").Inc()
		return models.ElicitSlotResponse(event, key, concept.Prompt), nil
	}

	if err := h.enqueueRequest(ctx, values); err != nil {
		return nil, err
	}

	metrics.DialogTurns.WithLabelValues(intent.Name, "close").Inc()
	return models.CloseResponse(event, msgConfirmation), nil
}

func (h *Handler) enqueueRequest(ctx context.Context, values map[string]string) error {
	payload := map[string]interface{}{
		"request_id":  uuid.New().String(),
		"location":    values["location"],
		"cuisine":     values["cuisine"],
		"dining_time": values["dining_time"],
		"email":       values["email"],
	}

	// Party size goes out as a number when it parses, otherwise verbatim.
	// Validation is the worker's job on the consuming side.
	if n, err := strconv.Atoi(values["party_size"]); err == nil {
		payload["party_size"] = n
	} else {
		payload["party_size"] = values["party_size"]
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal fulfillment request: %w", err)
	}

	if err := h.queue.SendMessage(ctx, string(body)); err != nil {
		h.logger.WithError(err).Error("failed to enqueue fulfillment request", map[string]interface{}{
			"cuisine": values["cuisine"],
		})
		return apperrors.NewEnqueueFailedError(err)
	}

	metrics.RequestsEnqueued.Inc()
	h.logger.Info("fulfillment request enqueued", map[string]interface{}{
		"cuisine":  values["cuisine"],
		"location": values["location"],
	})

	return nil
}
