// Package answers holds the single mutable answer set backing one wizard
// session. Every widget reads and writes through the same store; there are
// no shadow copies.
package answers

import (
	"sort"

	"github.com/goliatone/go-intake/pkg/schema"
)

// Store maps question ids to their current answers. It is not safe for
// concurrent use; all mutation happens on the single interaction path that
// drives the wizard.
type Store struct {
	entries map[string]schema.Answer
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string]schema.Answer)}
}

// Seed replaces the whole answer set. Used by the generation session to
// install initial answers together with a fresh schema in one step.
func (s *Store) Seed(initial map[string]schema.Answer) {
	s.entries = make(map[string]schema.Answer, len(initial))
	for id, answer := range initial {
		if answer.Kind == schema.AnswerMulti && answer.Selected == nil {
			answer.Selected = []schema.Option{}
		}
		s.entries[id] = answer
	}
}

// Get returns the stored answer for id, or the unanswered sentinel when the
// id is unknown. It never panics on unknown ids.
func (s *Store) Get(id string) schema.Answer {
	if s == nil || s.entries == nil {
		return schema.Unanswered()
	}
	answer, ok := s.entries[id]
	if !ok {
		return schema.Unanswered()
	}
	return answer
}

// SetScalar updates the value of the entry for id while preserving every
// other field already stored there (merge, not replace). Callers may attach
// metadata beyond the value; it survives subsequent scalar writes.
func (s *Store) SetScalar(id string, value any) {
	if s.entries == nil {
		s.entries = make(map[string]schema.Answer)
	}
	entry, ok := s.entries[id]
	if !ok {
		entry = schema.Unanswered()
	}
	entry.Kind = schema.AnswerScalar
	entry.Value = value
	s.entries[id] = entry
}

// SetRaw replaces the whole entry for id. This is the write path for
// array-typed answers, where the full selection list is swapped at once.
func (s *Store) SetRaw(id string, answer schema.Answer) {
	if s.entries == nil {
		s.entries = make(map[string]schema.Answer)
	}
	if answer.Kind == schema.AnswerMulti && answer.Selected == nil {
		answer.Selected = []schema.Option{}
	}
	s.entries[id] = answer
}

// SetMeta attaches a metadata field to the entry for id without touching its
// value.
func (s *Store) SetMeta(id, key string, value any) {
	if s.entries == nil {
		s.entries = make(map[string]schema.Answer)
	}
	entry, ok := s.entries[id]
	if !ok {
		entry = schema.Unanswered()
	}
	if entry.Meta == nil {
		entry.Meta = make(map[string]any)
	}
	entry.Meta[key] = value
	s.entries[id] = entry
}

// Reset discards every entry.
func (s *Store) Reset() {
	s.entries = make(map[string]schema.Answer)
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// IDs returns the stored question ids in sorted order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// VisibilityValues projects the answer set into the map shape dependency
// predicates evaluate against: scalar answers become {"value": v} records,
// multi-select answers become the list of selected option values.
func (s *Store) VisibilityValues() map[string]any {
	values := make(map[string]any, len(s.entries))
	for id, answer := range s.entries {
		if answer.Kind == schema.AnswerMulti {
			selected := make([]any, 0, len(answer.Selected))
			for _, opt := range answer.Selected {
				selected = append(selected, opt.Value)
			}
			values[id] = selected
			continue
		}
		values[id] = map[string]any{"value": answer.Value}
	}
	return values
}

// Snapshot returns a copy of the answer map for serialization. Selection
// lists are copied; scalar values are shared (they are treated as immutable).
func (s *Store) Snapshot() map[string]schema.Answer {
	out := make(map[string]schema.Answer, len(s.entries))
	for id, answer := range s.entries {
		if answer.Selected != nil {
			answer.Selected = append([]schema.Option(nil), answer.Selected...)
		}
		if answer.Meta != nil {
			meta := make(map[string]any, len(answer.Meta))
			for k, v := range answer.Meta {
				meta[k] = v
			}
			answer.Meta = meta
		}
		out[id] = answer
	}
	return out
}
