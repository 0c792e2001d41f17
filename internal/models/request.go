// internal/models/request.go
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FulfillmentRequest is the queue message produced by the dialog layer and
// consumed by the fulfillment worker.
type FulfillmentRequest struct {
	RequestID  string `json:"request_id,omitempty"`
	Cuisine    string `json:"cuisine"`
	DiningTime string `json:"dining_time,omitempty"`
	PartySize  string `json:"party_size,omitempty"`
	Location   string `json:"location,omitempty"`
	Email      string `json:"email"`
}

// legacy payloads used capitalized field names. Both spellings stay accepted
// so in-flight messages survive a deploy.
var requestFieldAliases = map[string][]string{
	"request_id":  {"request_id", "RequestId"},
	"cuisine":     {"cuisine", "Cuisine"},
	"dining_time": {"dining_time", "DiningTime", "Time"},
	"party_size":  {"party_size", "PartySize", "People"},
	"location":    {"location", "Location"},
	"email":       {"email", "Email", "EmailId"},
}

// ParseFulfillmentRequest decodes a queue message body. It tolerates legacy
// capitalized field names and a party size sent as either string or number.
func ParseFulfillmentRequest(body string) (*FulfillmentRequest, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}

	req := &FulfillmentRequest{
		RequestID:  lookupString(raw, "request_id"),
		Cuisine:    lookupString(raw, "cuisine"),
		DiningTime: lookupString(raw, "dining_time"),
		PartySize:  lookupString(raw, "party_size"),
		Location:   lookupString(raw, "location"),
		Email:      lookupString(raw, "email"),
	}

	return req, nil
}

// Document returns the canonical map form used for schema validation.
func (r *FulfillmentRequest) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"cuisine": r.Cuisine,
		"email":   r.Email,
	}
	if r.RequestID != "" {
		doc["request_id"] = r.RequestID
	}
	if r.DiningTime != "" {
		doc["dining_time"] = r.DiningTime
	}
	if r.PartySize != "" {
		doc["party_size"] = r.PartySize
	}
	if r.Location != "" {
		doc["location"] = r.Location
	}
	return doc
}

func lookupString(raw map[string]interface{}, canonical string) string {
	for _, alias := range requestFieldAliases[canonical] {
		for key, val := range raw {
			if !strings.EqualFold(key, alias) {
				continue
			}
			switch v := val.(type) {
			case string:
				return v
			case float64:
				if v == float64(int64(v)) {
					return strconv.FormatInt(int64(v), 10)
				}
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}
	return ""
}
