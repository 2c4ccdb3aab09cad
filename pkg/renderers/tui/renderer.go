// Package tui walks a wizard session through terminal prompts. Render logic
// talks to a PromptDriver so it can run against a scripted driver in tests
// and the survey-backed one in production.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/wizard"
)

// Renderer prompts for the description and the generated questionnaire.
type Renderer struct {
	driver PromptDriver
	theme  Theme
}

// Option configures a renderer at construction.
type Option func(*Renderer)

// WithDriver swaps the prompt driver. Tests use a scripted driver here.
func WithDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme installs resolved terminal styles.
func WithTheme(t Theme) Option {
	return func(r *Renderer) {
		r.theme = t
	}
}

// New constructs a renderer with the survey driver and the default theme.
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver: newSurveyDriver(),
		theme:  ResolveTheme(DefaultManifest(), ""),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Theme exposes the resolved styles for callers composing their own chrome.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Driver exposes the prompt driver for flows outside the questionnaire.
func (r *Renderer) Driver() PromptDriver {
	return r.driver
}

// AskDescription collects the free-text incident description.
func (r *Renderer) AskDescription(ctx context.Context, current string) (string, error) {
	return r.driver.TextArea(ctx, TextAreaConfig{
		Message: "Describe what happened",
		Default: current,
		Help:    "A sentence or two about the incident. This drives the questions that follow.",
	})
}

// RunForm walks the questionnaire until the user confirms their answers.
// Visibility is re-evaluated before every prompt, so answering a gate
// question changes which prompts follow within the same pass.
func (r *Renderer) RunForm(ctx context.Context, session *wizard.Session) error {
	for {
		for _, q := range session.Questions() {
			if !session.Visible(q) {
				continue
			}
			if err := r.ask(ctx, session, q); err != nil {
				return err
			}
		}
		done, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: "Continue with these answers?",
			Default: true,
			Help:    "Answering no walks through the questions again with your answers prefilled.",
		})
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (r *Renderer) ask(ctx context.Context, session *wizard.Session, q schema.Question) error {
	answer := session.Store.Get(q.ID)

	switch q.Type {
	case schema.TypeSelect, schema.TypeRadio:
		return r.askChoice(ctx, session, q, q.Options, answer)
	case schema.TypeYesNo:
		return r.askChoice(ctx, session, q, schema.YesNoOptions(), answer)
	case schema.TypeYesNoUnknown:
		return r.askChoice(ctx, session, q, schema.YesNoUnknownOptions(), answer)
	case schema.TypeCheckbox:
		return r.askCheckbox(ctx, session, q, answer)
	case schema.TypeInput, schema.TypeInputPhone:
		return r.askInput(ctx, session, q, answer)
	case schema.TypeNumeric:
		return r.askNumeric(ctx, session, q, answer)
	default:
		return fmt.Errorf("%w: %q (question %s)", ErrUnknownType, q.Type, q.ID)
	}
}

func (r *Renderer) askChoice(ctx context.Context, session *wizard.Session, q schema.Question, options []schema.Option, answer schema.Answer) error {
	labels := make([]string, len(options))
	defaultIdx := -1
	for i, opt := range options {
		labels[i] = opt.Label
		if answer.Answered() && opt.Value == answer.Value {
			defaultIdx = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      q.Label,
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         q.Description,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: selection out of range for question %s", q.ID)
	}
	session.Store.SetScalar(q.ID, options[idx].Value)
	return nil
}

func (r *Renderer) askCheckbox(ctx context.Context, session *wizard.Session, q schema.Question, answer schema.Answer) error {
	labels := make([]string, len(q.Options))
	for i, opt := range q.Options {
		labels[i] = opt.Label
	}
	var defaults []int
	for i, opt := range q.Options {
		for _, sel := range answer.Selected {
			if sel.Value == opt.Value {
				defaults = append(defaults, i)
			}
		}
	}
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  q.Label,
		Options:  labels,
		Defaults: defaults,
		Help:     q.Description,
	})
	if err != nil {
		return err
	}
	selected := make([]schema.Option, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(q.Options) {
			selected = append(selected, q.Options[idx])
		}
	}
	session.Store.SetRaw(q.ID, schema.MultiSelect(selected))
	return nil
}

// askInput covers plain and phone inputs. Format validators are advisory:
// a mismatch prints the validator's message but the value is kept and the
// flow moves on.
func (r *Renderer) askInput(ctx context.Context, session *wizard.Session, q schema.Question, answer schema.Answer) error {
	out, err := r.driver.Input(ctx, InputConfig{
		Message: q.Label,
		Default: displayString(answer.Value),
		Help:    q.Description,
	})
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) == "" {
		session.Store.SetScalar(q.ID, nil)
		return nil
	}
	if q.Validate != nil {
		if msg := q.Validate.Check(out); msg != "" {
			if err := r.driver.Info(ctx, r.theme.Error.Render(msg)); err != nil {
				return err
			}
		}
	}
	session.Store.SetScalar(q.ID, out)
	return nil
}

// askNumeric constrains input to numbers at the prompt; this is a widget
// constraint, not an advisory validator.
func (r *Renderer) askNumeric(ctx context.Context, session *wizard.Session, q schema.Question, answer schema.Answer) error {
	out, err := r.driver.Input(ctx, InputConfig{
		Message: q.Label,
		Default: displayString(answer.Value),
		Help:    q.Description,
		Validator: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				return fmt.Errorf("enter a number")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		session.Store.SetScalar(q.ID, nil)
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fmt.Errorf("tui: numeric answer for %s: %w", q.ID, err)
	}
	session.Store.SetScalar(q.ID, value)
	return nil
}

// displayString renders a stored value for prefill. Unanswered values render
// as an empty prompt, never as the word "null".
func displayString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
