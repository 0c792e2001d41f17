// internal/workers/fulfillment/process-requests/compose.go
package processrequests

import (
	"fmt"
	"strings"

	"dining-concierge/internal/models"
)

// suggestionBody renders the numbered suggestion list. The wording is part of
// the user-facing contract, change with care.
func suggestionBody(req *models.FulfillmentRequest, restaurants []*models.Restaurant) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello! Here are my %s restaurant suggestions for %s people", req.Cuisine, req.PartySize)
	if req.Location != "" {
		fmt.Fprintf(&b, " in %s", req.Location)
	}
	fmt.Fprintf(&b, ", for %s:\n", req.DiningTime)

	lines := make([]string, 0, len(restaurants))
	for i, r := range restaurants {
		name := r.Name
		if name == "" {
			name = "Unknown"
		}
		addr := r.Address
		if addr == "" {
			addr = "(address n/a)"
		}
		lines = append(lines, fmt.Sprintf("%d. %s, located at %s", i+1, name, addr))
	}

	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\nEnjoy your meal!")

	return b.String()
}

// apologyBody is the degraded outcome for a cuisine with no matches.
func apologyBody(cuisine string) string {
	return fmt.Sprintf("Sorry - no %s restaurants found right now.", cuisine)
}
