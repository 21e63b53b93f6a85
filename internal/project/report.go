package project

import "fmt"

// Action is what a batch did (or would do) with one descriptor.
type Action int

const (
	ActionCreated Action = iota
	ActionArchived
	ActionOverwritten
	ActionIgnored
	ActionDenied
	ActionFailed
)

var actionNames = []string{"created", "archived", "overwritten", "ignored", "denied", "failed"}

// String returns the string representation of Action.
func (a Action) String() string {
	if int(a) < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Outcome describes the result for one descriptor.
type Outcome struct {
	Path      string   `json:"path" yaml:"path"`
	Members   []string `json:"members,omitempty" yaml:"members,omitempty"`
	Action    Action   `json:"action" yaml:"action"`
	Collision bool     `json:"collision" yaml:"collision"`
	Archived  []string `json:"archived,omitempty" yaml:"archived,omitempty"`
	Writable  bool     `json:"writable" yaml:"writable"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report collects the outcomes of one batch, in descriptor order.
type Report struct {
	Root     string    `json:"root" yaml:"root"`
	Policy   Policy    `json:"policy" yaml:"policy"`
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
}

// Count returns how many outcomes have the given action.
func (r *Report) Count(action Action) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == action {
			n++
		}
	}
	return n
}
