// pkg/registry/schema.go
package registry

// SlotRegistry is the ordered conversation definition for the dining intent.
// Order matters: the first unfilled required concept is the one elicited next.
type SlotRegistry struct {
	Version  string        `json:"version"`
	Concepts []SlotConcept `json:"concepts"`
}

// SlotConcept names one piece of information the bot collects, the slot keys
// it may arrive under, and the prompt used to ask for it.
type SlotConcept struct {
	Concept  string   `json:"concept"`
	Aliases  []string `json:"aliases"`
	Prompt   string   `json:"prompt"`
	Required bool     `json:"required"`
}
