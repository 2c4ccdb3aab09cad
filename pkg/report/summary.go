// Package report renders the claim summary shown for review before the final
// submission. Only questions that are visible at render time appear; answers
// to questions a later edit hid stay in the store but out of the summary.
package report

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-intake/pkg/photos"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/wizard"
)

//go:embed summary.tpl
var summaryTemplate string

// Row is one label/value line in the rendered summary.
type Row struct {
	Label string
	Value string
}

// Builder renders claim summaries from a compiled template.
type Builder struct {
	tmpl *pongo2.Template
}

// NewBuilder compiles the embedded summary template.
func NewBuilder() (*Builder, error) {
	tmpl, err := pongo2.FromString(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: compile template: %w", err)
	}
	return &Builder{tmpl: tmpl}, nil
}

// Render produces the summary for the session's current state.
func (b *Builder) Render(session *wizard.Session) (string, error) {
	out, err := b.tmpl.Execute(pongo2.Context{
		"scope": pongo2.Context{
			"policyId":     session.Scope.PolicyID,
			"namedInsured": session.Scope.NamedInsured,
			"make":         session.Scope.Make,
			"model":        session.Scope.Model,
		},
		"description": session.Description,
		"rows":        Rows(session),
		"photoCount":  session.Slots.Count(),
		"photoTotal":  len(photos.Orientations()),
	})
	if err != nil {
		return "", fmt.Errorf("report: render summary: %w", err)
	}
	return out, nil
}

// Rows collects the visible questions with their display values, in the
// schema's declared order.
func Rows(session *wizard.Session) []Row {
	visible := session.VisibleQuestions()
	rows := make([]Row, 0, len(visible))
	for _, q := range visible {
		rows = append(rows, Row{Label: q.Label, Value: DisplayValue(q, session.Store.Get(q.ID))})
	}
	return rows
}

// DisplayValue formats an answer for human reading: option labels where the
// question defines options, joined labels for multi-select, a dash for
// anything unanswered. A null value never renders as the word "null".
func DisplayValue(q schema.Question, answer schema.Answer) string {
	if !answer.Answered() {
		return "—"
	}
	if answer.Kind == schema.AnswerMulti {
		if len(answer.Selected) == 0 {
			return "—"
		}
		labels := make([]string, 0, len(answer.Selected))
		for _, opt := range answer.Selected {
			labels = append(labels, optionLabel(q, opt.Value, opt.Label))
		}
		return strings.Join(labels, ", ")
	}
	switch v := answer.Value.(type) {
	case bool:
		if v {
			return optionLabel(q, true, "Yes")
		}
		return optionLabel(q, false, "No")
	case string:
		return optionLabel(q, v, v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return optionLabel(q, v, fmt.Sprintf("%v", v))
	}
}

func optionLabel(q schema.Question, value any, fallback string) string {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return fallback
}
