// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Load reads a slot registry from a JSON file. Deployments override the
// built-in conversation definition this way.
func Load(path string) (*SlotRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var reg SlotRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse slot registry %s: %w", path, err)
	}

	if len(reg.Concepts) == 0 {
		return nil, fmt.Errorf("slot registry %s defines no concepts", path)
	}

	return &reg, nil
}

// Default returns the built-in conversation definition for dining suggestions.
func Default() *SlotRegistry {
	return &SlotRegistry{
		Version: "1.0",
		Concepts: []SlotConcept{
			{
				Concept:  "location",
				Aliases:  []string{"Location", "City"},
				Prompt:   "What is the city?",
				Required: true,
			},
			{
				Concept:  "cuisine",
				Aliases:  []string{"Cuisine"},
				Prompt:   "What is the cuisine?",
				Required: true,
			},
			{
				Concept:  "dining_time",
				Aliases:  []string{"DiningTime", "Time"},
				Prompt:   "What is the time?",
				Required: true,
			},
			{
				Concept:  "party_size",
				Aliases:  []string{"PartySize", "People", "Number"},
				Prompt:   "What is the party size?",
				Required: true,
			},
			{
				Concept:  "email",
				Aliases:  []string{"Email", "EmailId", "emailid"},
				Prompt:   "What is the email?",
				Required: true,
			},
		},
	}
}

// MatchKey returns the first slot key that matches one of the concept's
// aliases, comparing case-insensitively. Alias order decides ties.
func (c SlotConcept) MatchKey(slotKeys []string) (string, bool) {
	for _, alias := range c.Aliases {
		for _, key := range slotKeys {
			if strings.EqualFold(alias, key) {
				return key, true
			}
		}
	}
	return "", false
}

// FallbackKey is the slot key reported in configuration errors when none of
// the aliases is present in the event.
func (c SlotConcept) FallbackKey() string {
	if len(c.Aliases) == 0 {
		return c.Concept
	}
	return c.Aliases[0]
}

// Find returns the concept with the given name.
func (r *SlotRegistry) Find(concept string) (SlotConcept, bool) {
	for _, c := range r.Concepts {
		if c.Concept == concept {
			return c, true
		}
	}
	return SlotConcept{}, false
}
