// internal/workers/fulfillment/process-requests/handler.go
package processrequests

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	commonaws "dining-concierge/internal/common/aws"
	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/common/validation"
	"dining-concierge/internal/models"
)

type Handler struct {
	config   *Config
	queue    MessageQueue
	searcher RestaurantSearcher
	store    RestaurantStore
	sender   EmailSender
	logger   logger.Logger
	rand     *rand.Rand
}

func NewHandler(config *Config, queue MessageQueue, searcher RestaurantSearcher, store RestaurantStore, sender EmailSender, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		queue:    queue,
		searcher: searcher,
		store:    store,
		sender:   sender,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the sampling source. Tests use a fixed seed to make the
// chosen candidates deterministic.
func (h *Handler) WithRand(r *rand.Rand) *Handler {
	h.rand = r
	return h
}

// RunBatch performs one receive-process-delete pass. Messages that fail stay
// on the queue and reappear after the visibility timeout. The returned count
// covers only messages that were processed and deleted.
func (h *Handler) RunBatch(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	messages, err := h.queue.ReceiveMessages(ctx, int32(h.config.BatchSize), int32(h.config.VisibilityTimeout))
	if err != nil {
		metrics.MessagesFailed.WithLabelValues(string(apperrors.ErrCodeQueueReceiveFailed)).Inc()
		return 0, apperrors.NewQueueReceiveFailedError(err)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	h.logger.Info("processing batch", map[string]interface{}{
		"messageCount": len(messages),
	})

	processed := 0
	for _, msg := range messages {
		if h.config.MaxReceiveCount > 0 && msg.ReceiveCount >= h.config.MaxReceiveCount {
			h.deadLetter(ctx, msg)
			continue
		}

		if err := h.processMessage(ctx, msg); err != nil {
			code := errorCode(err)
			h.logger.WithError(err).Error("message processing failed, leaving for redelivery", map[string]interface{}{
				"messageId":    msg.MessageID,
				"receiveCount": msg.ReceiveCount,
				"category":     apperrors.GetErrorCategory(apperrors.ErrorCode(code)),
			})
			metrics.MessagesFailed.WithLabelValues(code).Inc()
			continue
		}

		if err := h.queue.DeleteMessage(ctx, msg.ReceiptHandle); err != nil {
			// The work succeeded but the ack did not. The message will come
			// back and produce a duplicate email, which at-least-once
			// delivery accepts.
			h.logger.WithError(err).Error("failed to delete processed message", map[string]interface{}{
				"messageId": msg.MessageID,
			})
			metrics.MessagesFailed.WithLabelValues(string(apperrors.ErrCodeQueueDeleteFailed)).Inc()
			continue
		}

		metrics.MessagesProcessed.Inc()
		processed++
	}

	return processed, nil
}

// deadLetter moves a message that exhausted its receive budget to the
// dead-letter queue so it stops cycling through the main queue.
func (h *Handler) deadLetter(ctx context.Context, msg commonaws.Message) {
	if err := h.queue.SendMessageTo(ctx, h.config.DeadLetterQueueURL, msg.Body); err != nil {
		h.logger.WithError(err).Error("failed to forward message to dead-letter queue", map[string]interface{}{
			"messageId": msg.MessageID,
		})
		metrics.MessagesFailed.WithLabelValues(string(apperrors.ErrCodeDeadLetterFailed)).Inc()
		return
	}

	if err := h.queue.DeleteMessage(ctx, msg.ReceiptHandle); err != nil {
		h.logger.WithError(err).Error("failed to delete dead-lettered message", map[string]interface{}{
			"messageId": msg.MessageID,
		})
		return
	}

	metrics.MessagesDeadLettered.Inc()
	h.logger.Warn("message dead-lettered", map[string]interface{}{
		"messageId":    msg.MessageID,
		"receiveCount": msg.ReceiveCount,
	})
}

func (h *Handler) processMessage(ctx context.Context, msg commonaws.Message) error {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	req, err := models.ParseFulfillmentRequest(msg.Body)
	if err != nil {
		return apperrors.NewMalformedRequestError(err.Error())
	}

	if result := validation.ValidateFulfillmentRequest(req.Document()); !result.Valid {
		return apperrors.NewMalformedRequestError(fmt.Sprintf("%+v", result.Errors))
	}

	ids := h.findCandidates(ctx, req.Cuisine)

	var body string
	if len(ids) == 0 {
		body = apologyBody(req.Cuisine)
		metrics.EmailsSent.WithLabelValues("apology").Inc()
	} else {
		restaurants := h.fetchDetails(ctx, ids)
		body = suggestionBody(req, restaurants)
		metrics.EmailsSent.WithLabelValues("suggestions").Inc()
	}

	// Send failure is the one hard failure in the pipeline. Everything
	// before it degrades to an apology, but a dropped send would mean the
	// user never hears back.
	if err := h.sender.SendTextEmail(ctx, req.Email, h.config.Subject, body); err != nil {
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		return apperrors.NewNotificationSendFailedError(err)
	}

	h.logger.Info("suggestion email sent", map[string]interface{}{
		"requestId":  req.RequestID,
		"cuisine":    req.Cuisine,
		"candidates": len(ids),
	})

	return nil
}

// findCandidates queries the index and samples up to SampleSize distinct ids.
// Index failures degrade to an empty candidate set rather than failing the
// message.
func (h *Handler) findCandidates(ctx context.Context, cuisine string) []string {
	ids, err := h.searcher.SearchByCuisine(ctx, cuisine, h.config.SearchSize)
	if err != nil {
		h.logger.WithError(err).Warn("restaurant search failed, sending apology", map[string]interface{}{
			"cuisine": cuisine,
		})
		return nil
	}

	if len(ids) <= h.config.SampleSize {
		return ids
	}

	sampled := make([]string, 0, h.config.SampleSize)
	for _, idx := range h.rand.Perm(len(ids))[:h.config.SampleSize] {
		sampled = append(sampled, ids[idx])
	}
	return sampled
}

// fetchDetails resolves candidate ids to full records. Unknown ids and lookup
// failures are skipped.
func (h *Handler) fetchDetails(ctx context.Context, ids []string) []*models.Restaurant {
	restaurants := make([]*models.Restaurant, 0, len(ids))
	for _, id := range ids {
		restaurant, err := h.store.GetRestaurant(ctx, id)
		if err != nil {
			h.logger.WithError(err).Warn("restaurant detail lookup failed, skipping", map[string]interface{}{
				"restaurantId": id,
			})
			continue
		}
		if restaurant == nil {
			continue
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants
}

func errorCode(err error) string {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return "PROCESSING_FAILED"
}
