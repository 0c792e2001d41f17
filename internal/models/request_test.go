// internal/models/request_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFulfillmentRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected FulfillmentRequest
		wantErr  bool
	}{
		{
			name: "canonical snake_case payload",
			body: `{"request_id":"r-1","cuisine":"italian","dining_time":"7pm","party_size":"4","location":"Manhattan","email":"a@b.com"}`,
			expected: FulfillmentRequest{
				RequestID:  "r-1",
				Cuisine:    "italian",
				DiningTime: "7pm",
				PartySize:  "4",
				Location:   "Manhattan",
				Email:      "a@b.com",
			},
		},
		{
			name: "legacy capitalized payload",
			body: `{"Cuisine":"japanese","DiningTime":"19:00","PartySize":"2","Location":"Brooklyn","Email":"x@y.org"}`,
			expected: FulfillmentRequest{
				Cuisine:    "japanese",
				DiningTime: "19:00",
				PartySize:  "2",
				Location:   "Brooklyn",
				Email:      "x@y.org",
			},
		},
		{
			name: "numeric party size coerced to string",
			body: `{"cuisine":"mexican","party_size":4,"email":"a@b.com"}`,
			expected: FulfillmentRequest{
				Cuisine:   "mexican",
				PartySize: "4",
				Email:     "a@b.com",
			},
		},
		{
			name: "legacy People alias for party size",
			body: `{"cuisine":"thai","People":"6","email":"a@b.com"}`,
			expected: FulfillmentRequest{
				Cuisine:   "thai",
				PartySize: "6",
				Email:     "a@b.com",
			},
		},
		{
			name:    "invalid JSON",
			body:    `{"cuisine": "italian"`,
			wantErr: true,
		},
		{
			name:     "missing fields stay empty",
			body:     `{}`,
			expected: FulfillmentRequest{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseFulfillmentRequest(tt.body)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, *req)
		})
	}
}

func TestFulfillmentRequestDocument(t *testing.T) {
	req := &FulfillmentRequest{
		Cuisine:   "italian",
		PartySize: "4",
		Email:     "a@b.com",
	}

	doc := req.Document()

	assert.Equal(t, "italian", doc["cuisine"])
	assert.Equal(t, "4", doc["party_size"])
	assert.Equal(t, "a@b.com", doc["email"])
	assert.NotContains(t, doc, "location")
	assert.NotContains(t, doc, "request_id")
}
