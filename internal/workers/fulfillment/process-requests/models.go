package processrequests

import (
	"context"

	commonaws "dining-concierge/internal/common/aws"
	"dining-concierge/internal/models"
)

const TaskType = "process-requests"

// Interfaces for the worker's collaborators, defined here for mocking.

type MessageQueue interface {
	ReceiveMessages(ctx context.Context, max, visibilityTimeout int32) ([]commonaws.Message, error)
	DeleteMessage(ctx context.Context, receiptHandle string) error
	SendMessageTo(ctx context.Context, queueURL, body string) error
}

type RestaurantSearcher interface {
	SearchByCuisine(ctx context.Context, cuisine string, size int) ([]string, error)
}

// RestaurantStore returns nil without error when the id is unknown.
type RestaurantStore interface {
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
}

type EmailSender interface {
	SendTextEmail(ctx context.Context, to, subject, body string) error
}
