// internal/workers/fulfillment/process-requests/handler_test.go
package processrequests

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	commonaws "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockMessageQueue struct {
	Messages   []commonaws.Message
	ReceiveErr error
	DeleteErr  error
	SendErr    error

	Deleted     []string
	DeadLetters map[string][]string
}

func (m *MockMessageQueue) ReceiveMessages(ctx context.Context, max, visibilityTimeout int32) ([]commonaws.Message, error) {
	if m.ReceiveErr != nil {
		return nil, m.ReceiveErr
	}
	if int(max) < len(m.Messages) {
		return m.Messages[:max], nil
	}
	return m.Messages, nil
}

func (m *MockMessageQueue) DeleteMessage(ctx context.Context, receiptHandle string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, receiptHandle)
	return nil
}

func (m *MockMessageQueue) SendMessageTo(ctx context.Context, queueURL, body string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	if m.DeadLetters == nil {
		m.DeadLetters = make(map[string][]string)
	}
	m.DeadLetters[queueURL] = append(m.DeadLetters[queueURL], body)
	return nil
}

type MockSearcher struct {
	IDs       []string
	SearchErr error
	Queries   []string
}

func (m *MockSearcher) SearchByCuisine(ctx context.Context, cuisine string, size int) ([]string, error) {
	m.Queries = append(m.Queries, cuisine)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.IDs, nil
}

type MockStore struct {
	Restaurants map[string]*models.Restaurant
	LookupErr   error
}

func (m *MockStore) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	return m.Restaurants[id], nil
}

type SentEmail struct {
	To      string
	Subject string
	Body    string
}

type MockSender struct {
	Sent    []SentEmail
	SendErr error
}

func (m *MockSender) SendTextEmail(ctx context.Context, to, subject, body string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

// ==========================
// Test Helper Functions
// ==========================

func createWorkerConfig() *Config {
	return &Config{
		Enabled:           true,
		BatchSize:         5,
		VisibilityTimeout: 60,
		SearchSize:        100,
		SampleSize:        3,
		FromEmail:         "suggestions@example.com",
		Subject:           "Your Dining Suggestions",
		Timeout:           5 * time.Second,
	}
}

func newWorker(queue *MockMessageQueue, searcher *MockSearcher, store *MockStore, sender *MockSender) *Handler {
	h := NewHandler(createWorkerConfig(), queue, searcher, store, sender, logger.NewNoOpLogger())
	return h.WithRand(rand.New(rand.NewSource(1)))
}

func validBody() string {
	return `{"cuisine":"italian","email":"a@b.com","dining_time":"7pm","party_size":4,"location":"Manhattan"}`
}

func message(id, body string) commonaws.Message {
	return commonaws.Message{
		MessageID:     id,
		Body:          body,
		ReceiptHandle: "rh-" + id,
		ReceiveCount:  1,
	}
}

// ==========================
// Tests
// ==========================

func TestMalformedMessageIsRetained(t *testing.T) {
	queue := &MockMessageQueue{
		Messages: []commonaws.Message{
			message("m1", validBody()),
			message("m2", `{"email":"a@b.com"}`),
			message("m3", validBody()),
		},
	}
	searcher := &MockSearcher{IDs: []string{"r1"}}
	store := &MockStore{Restaurants: map[string]*models.Restaurant{
		"r1": {ID: "r1", Name: "Trattoria", Address: "1 Main St"},
	}}
	sender := &MockSender{}

	processed, err := newWorker(queue, searcher, store, sender).RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.ElementsMatch(t, []string{"rh-m1", "rh-m3"}, queue.Deleted)
	assert.Len(t, sender.Sent, 2)
}

func TestZeroHitsSendsApologyAndAcks(t *testing.T) {
	queue := &MockMessageQueue{Messages: []commonaws.Message{message("m1", validBody())}}
	searcher := &MockSearcher{IDs: nil}
	sender := &MockSender{}

	processed, err := newWorker(queue, searcher, &MockStore{}, sender).RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, []string{"rh-m1"}, queue.Deleted)

	require.Len(t, sender.Sent, 1)
	assert.Equal(t, "Sorry - no italian restaurants found right now.", sender.Sent[0].Body)
	assert.Equal(t, "a@b.com", sender.Sent[0].To)
}

func TestSearchFailureDegradesToApology(t *testing.T) {
	queue := &MockMessageQueue{Messages: []commonaws.Message{message("m1", validBody())}}
	searcher := &MockSearcher{SearchErr: errors.New("index unreachable")}
	sender := &MockSender{}

	processed, err := newWorker(queue, searcher, &MockStore{}, sender).RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	require.Len(t, sender.Sent, 1)
	assert.Contains(t, sender.Sent[0].Body, "Sorry - no italian restaurants")
}

func TestSamplesThreeDistinctFromFiveHits(t *testing.T) {
	hits := []string{"r1", "r2", "r3", "r4", "r5"}
	restaurants := make(map[string]*models.Restaurant, len(hits))
	for _, id := range hits {
		restaurants[id] = &models.Restaurant{ID: id, Name: "Place " + id, Address: id + " Street"}
	}

	queue := &MockMessageQueue{Messages: []commonaws.Message{message("m1", validBody())}}
	searcher := &MockSearcher{IDs: hits}
	sender := &MockSender{}

	processed, err := newWorker(queue, searcher, &MockStore{Restaurants: restaurants}, sender).RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	require.Len(t, sender.Sent, 1)

	body := sender.Sent[0].Body
	assert.Contains(t, body, "1. ")
	assert.Contains(t, body, "2. ")
	assert.Contains(t, body, "3. ")
	assert.NotContains(t, body, "4. ")

	// The three listed names must be distinct hits.
	listed := 0
	for _, id := range hits {
		if strings.Contains(body, "Place "+id) {
			listed++
		}
	}
	assert.Equal(t, 3, listed)
}

func TestTwoMatchesListsExactlyTwo(t *testing.T) {
	queue := &MockMessageQueue{Messages: []commonaws.Message{message("m1", validBody())}}
	searcher := &MockSearcher{IDs: []string{"r1", "r2"}}
	store := &MockStore{Restaurants: map[string]*models.Restaurant{
		"r1": {ID: "r1", Name: "Trattoria Uno", Address: "1 Mulberry St"},
		"r2": {ID: "r2", Name: "Osteria Due", Address: "2 Mott St"},
	}}
	sender := &MockSender{}

	processed, err := newWorker(queue, searcher, store, sender).RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	require.Len(t, sender.Sent, 1)

	body := sender.Sent[0].Body
	assert.Contains(t, body, "italian")
	assert.Contains(t, body, "4 people")
	assert.Contains(t, body, "Manhattan")
	assert.Contains(t, body, "7pm")
	assert.Contains(t, body, "1. Trattoria Uno, located at 1 Mulberry St")
	assert.Contains(t, body, "2. Osteria Due, located at 2 Mott St")
	assert.NotContains(t, body, "3. ")
	assert.Contains(t, body, "Enjoy your meal!")
}

func TestDetailMissIsSkipped(t *testing.T) {
	queue := &MockMessageQueue{Messages: []commonaws.Message{message("m1", validBody())}}
	searcher := &MockSearcher{IDs: []string{"r1", "r2"}}
	store := &MockStore{Restaurants: map[string]*models.Restaurant{
		"r2": {ID: "r2", Name: "Osteria Due", Address: "2 Mott St"},
	}}
	sender := &MockSender{}

	processed, err := newWorker(queue, searcher, store, sender).RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	require.Len(t, sender.Sent, 1)
	assert.Contains(t, sender.Sent[0].Body, "1. Osteria Due")
	assert.NotContains(t, sender.Sent[0].Body, "2. ")
}

func TestSendFailureRetainsMessage(t *testing.T) {
	queue := &MockMessageQueue{Messages: []commonaws.Message{message("m1", validBody())}}
	searcher := &MockSearcher{IDs: []string{"r1"}}
	store := &MockStore{Restaurants: map[string]*models.Restaurant{
		"r1": {ID: "r1", Name: "Trattoria", Address: "1 Main St"},
	}}
	sender := &MockSender{SendErr: errors.New("ses throttled")}

	processed, err := newWorker(queue, searcher, store, sender).RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Empty(t, queue.Deleted)
}

func TestLegacyCapitalizedFieldsAccepted(t *testing.T) {
	body := `{"Cuisine":"japanese","Email":"x@y.org","DiningTime":"19:00","PartySize":"2","Location":"Brooklyn"}`
	queue := &MockMessageQueue{Messages: []commonaws.Message{message("m1", body)}}
	searcher := &MockSearcher{IDs: nil}
	sender := &MockSender{}

	processed, err := newWorker(queue, searcher, &MockStore{}, sender).RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	require.Len(t, sender.Sent, 1)
	assert.Equal(t, "x@y.org", sender.Sent[0].To)
	assert.Contains(t, sender.Sent[0].Body, "japanese")
	assert.Equal(t, []string{"japanese"}, searcher.Queries)
}

func TestExhaustedMessageIsDeadLettered(t *testing.T) {
	cfg := createWorkerConfig()
	cfg.MaxReceiveCount = 3
	cfg.DeadLetterQueueURL = "https://queue.example.com/dlq"

	exhausted := message("m1", `{"bad":"payload"}`)
	exhausted.ReceiveCount = 3

	queue := &MockMessageQueue{Messages: []commonaws.Message{exhausted, message("m2", validBody())}}
	searcher := &MockSearcher{IDs: nil}
	sender := &MockSender{}

	handler := NewHandler(cfg, queue, searcher, &MockStore{}, sender, logger.NewNoOpLogger())
	processed, err := handler.RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	require.Contains(t, queue.DeadLetters, "https://queue.example.com/dlq")
	assert.Equal(t, []string{`{"bad":"payload"}`}, queue.DeadLetters["https://queue.example.com/dlq"])
	assert.ElementsMatch(t, []string{"rh-m1", "rh-m2"}, queue.Deleted)
}

func TestDeadLetterForwardFailureRetainsMessage(t *testing.T) {
	cfg := createWorkerConfig()
	cfg.MaxReceiveCount = 3
	cfg.DeadLetterQueueURL = "https://queue.example.com/dlq"

	exhausted := message("m1", `{"bad":"payload"}`)
	exhausted.ReceiveCount = 5

	queue := &MockMessageQueue{
		Messages: []commonaws.Message{exhausted},
		SendErr:  errors.New("dlq unavailable"),
	}

	handler := NewHandler(cfg, queue, &MockSearcher{}, &MockStore{}, &MockSender{}, logger.NewNoOpLogger())
	processed, err := handler.RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Empty(t, queue.Deleted)
}

func TestReceiveFailurePropagates(t *testing.T) {
	queue := &MockMessageQueue{ReceiveErr: errors.New("queue unavailable")}

	_, err := newWorker(queue, &MockSearcher{}, &MockStore{}, &MockSender{}).RunBatch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "receive messages")
}

func TestDeleteFailureNotCountedAsProcessed(t *testing.T) {
	queue := &MockMessageQueue{
		Messages:  []commonaws.Message{message("m1", validBody())},
		DeleteErr: errors.New("receipt expired"),
	}
	searcher := &MockSearcher{IDs: nil}
	sender := &MockSender{}

	processed, err := newWorker(queue, searcher, &MockStore{}, sender).RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	// The email did go out; only the ack failed.
	assert.Len(t, sender.Sent, 1)
}

func TestEmptyQueueIsANoOp(t *testing.T) {
	queue := &MockMessageQueue{}

	processed, err := newWorker(queue, &MockSearcher{}, &MockStore{}, &MockSender{}).RunBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, processed)
}
