package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyRoster        = errors.New("roster must have at least one participant")
	ErrUnknownParticipant = errors.New("participant is not in the roster")
)

// Roster is the fixed, ordered list of participants in a session.
// It is set once at startup and never changes.
type Roster struct {
	names []string
	index map[string]int
}

// NewRoster builds a roster from display names. Names are trimmed; blank and
// duplicate names are rejected.
func NewRoster(names []string) (*Roster, error) {
	if len(names) == 0 {
		return nil, ErrEmptyRoster
	}

	r := &Roster{
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, fmt.Errorf("roster contains a blank name")
		}
		if _, dup := r.index[name]; dup {
			return nil, fmt.Errorf("roster contains duplicate name %q", name)
		}
		r.index[name] = len(r.names)
		r.names = append(r.names, name)
	}
	return r, nil
}

// Names returns the participant names in roster order.
func (r *Roster) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of participants.
func (r *Roster) Len() int {
	return len(r.names)
}

// Contains reports whether name is a roster member.
func (r *Roster) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Position returns the roster index of name, or -1.
func (r *Roster) Position(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}

// Check returns an error wrapping ErrUnknownParticipant for the first name
// that is not a roster member.
func (r *Roster) Check(names ...string) error {
	for _, name := range names {
		if !r.Contains(name) {
			return fmt.Errorf("%w: %q", ErrUnknownParticipant, name)
		}
	}
	return nil
}
