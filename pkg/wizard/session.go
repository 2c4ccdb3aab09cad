// Package wizard drives one end-to-end intake run: the session context that
// owns all mutable state, and the navigator that gates step transitions.
package wizard

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/photos"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/visibility"
	"github.com/goliatone/go-intake/pkg/visibility/expr"
)

// Scope is the case identity the wizard operates under. It seeds sample
// photo URLs and the final analysis submission.
type Scope struct {
	PolicyID     string `json:"policyId" yaml:"policy_id"`
	NamedInsured string `json:"namedInsured" yaml:"named_insured"`
	Make         string `json:"make" yaml:"make"`
	Model        string `json:"model" yaml:"model"`
}

// WarnFunc receives per-question dependency evaluation problems. They are
// observability events, never user-facing errors.
type WarnFunc func(questionID string, err error)

// Session is the single context object backing one wizard run. Exactly one
// answer store and one slot set exist per session; every collaborator
// receives the session by reference instead of reaching for shared state.
type Session struct {
	id          uuid.UUID
	Scope       Scope
	Description string
	Store       *answers.Store
	Slots       *photos.Slots

	questions []schema.Question
	preds     map[string]visibility.Predicate
	warn      WarnFunc
}

// Option configures a session at construction.
type Option func(*Session)

// WithWarn installs the observability hook for dependency errors.
func WithWarn(warn WarnFunc) Option {
	return func(s *Session) {
		if warn != nil {
			s.warn = warn
		}
	}
}

// NewSession creates an empty session for the given case scope.
func NewSession(scope Scope, options ...Option) *Session {
	s := &Session{
		id:    uuid.New(),
		Scope: scope,
		Store: answers.New(),
		Slots: photos.NewSlots(),
		warn:  func(string, error) {},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ID identifies the current session incarnation. Reset mints a new id, which
// is what invalidates completions still in flight for the old one.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Questions returns the ingested schema in declared order.
func (s *Session) Questions() []schema.Question {
	return s.questions
}

// HasForm reports whether a generated schema is currently installed.
func (s *Session) HasForm() bool {
	return len(s.questions) > 0
}

// Install replaces the schema and the answer store contents as one atomic
// update: there is no intermediate state where questions exist without
// matching answers. Dependency rules are compiled here, once per schema
// load; a rule that fails to compile pins its question hidden and reports
// through the warn hook.
func (s *Session) Install(payload schema.Payload) {
	preds := make(map[string]visibility.Predicate, len(payload.Questions))
	for _, q := range payload.Questions {
		if q.DependsOn == "" {
			preds[q.ID] = visibility.Always
			continue
		}
		pred, err := expr.Compile(q.DependsOn)
		if err != nil {
			s.warn(q.ID, err)
			preds[q.ID] = visibility.Never
			continue
		}
		preds[q.ID] = pred
	}
	s.questions = payload.Questions
	s.preds = preds
	s.Store.Seed(payload.Answers)
}

// Visible evaluates the question's dependency predicate against the full
// current answer map. It is recomputed on every call; nothing is cached
// across edits. Evaluation errors hide the question and feed the warn hook.
func (s *Session) Visible(q schema.Question) bool {
	pred, ok := s.preds[q.ID]
	if !ok {
		pred = visibility.Always
	}
	visible, err := pred(visibility.Context{Values: s.Store.VisibilityValues()})
	if err != nil {
		s.warn(q.ID, err)
		return false
	}
	return visible
}

// VisibleQuestions filters the schema to currently visible questions,
// preserving declared order.
func (s *Session) VisibleQuestions() []schema.Question {
	out := make([]schema.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if s.Visible(q) {
			out = append(out, q)
		}
	}
	return out
}

// Reset discards all in-progress data and mints a new session id so results
// from calls still in flight are recognized as stale and dropped.
func (s *Session) Reset() {
	s.id = uuid.New()
	s.Description = ""
	s.questions = nil
	s.preds = nil
	s.Store.Reset()
	s.Slots.Reset()
}
