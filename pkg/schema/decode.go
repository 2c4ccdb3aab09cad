package schema

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	goskema "github.com/reoring/goskema"
	g "github.com/reoring/goskema/dsl"
)

// Payload is the decoded result of one form-generation call: the question
// list plus the initial answers, keyed by question id. Both are produced
// together so callers can swap them in as one atomic unit.
type Payload struct {
	Questions []Question
	Answers   map[string]Answer
}

var questionWire = g.Object().
	Field("id", g.StringOf[string]()).Required().
	Field("type", g.StringOf[string]()).Required().
	Field("label", g.StringOf[string]()).Required().
	Field("description", g.Nullable(g.StringOf[string]())).Optional().
	Field("optional", g.BoolOf[bool]()).Optional().
	Field("dependsOn", g.Nullable(g.StringOf[string]())).Optional().
	Field("validate", g.Nullable(g.SchemaOf(g.MapAny()))).Optional().
	Field("lovs", g.Nullable(g.ArrayOf(g.MapAny()))).Optional().
	UnknownStrip().
	MustBuild()

var payloadWire = g.Object().
	Field("questions", g.ArrayOf(questionWire)).Required().
	Field("answers", g.SchemaOf(g.MapAny())).Required().
	UnknownStrip().
	MustBuild()

// DecodePayload validates the raw form-generation response body and maps it
// into the typed schema. The wire shape is checked by goskema before any
// mapping happens, so malformed payloads surface as a single schema error
// rather than partial state. Initial answers missing for a known question id
// become the unanswered sentinel; checkbox answers are always materialized
// as arrays.
func DecodePayload(ctx context.Context, data []byte) (Payload, error) {
	raw, err := goskema.ParseFrom(ctx, payloadWire, goskema.JSONBytes(data))
	if err != nil {
		return Payload{}, fmt.Errorf("schema: invalid form payload: %w", err)
	}

	questions, err := mapQuestions(raw["questions"])
	if err != nil {
		return Payload{}, err
	}
	if err := ValidateQuestions(questions); err != nil {
		return Payload{}, err
	}

	answers := mapAnswers(questions, raw["answers"])
	return Payload{Questions: questions, Answers: answers}, nil
}

func mapQuestions(raw any) ([]Question, error) {
	items := asSlice(raw)
	questions := make([]Question, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schema: question entry is %T, expected object", item)
		}
		q := Question{
			ID:          stringAt(entry, "id"),
			Type:        Type(stringAt(entry, "type")),
			Label:       sanitizeText(stringAt(entry, "label")),
			Description: sanitizeText(stringAt(entry, "description")),
			DependsOn:   stringAt(entry, "dependsOn"),
		}
		if opt, ok := entry["optional"].(bool); ok {
			q.Optional = opt
		}
		q.Options = mapOptions(entry["lovs"])
		q.Validate = mapValidator(q.Type, entry["validate"])
		questions = append(questions, q)
	}
	return questions, nil
}

func mapOptions(raw any) []Option {
	items := asSlice(raw)
	if len(items) == 0 {
		return nil
	}
	options := make([]Option, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		options = append(options, Option{
			Value:       entry["value"],
			Label:       sanitizeText(stringAt(entry, "label")),
			Description: sanitizeText(stringAt(entry, "description")),
		})
	}
	return options
}

// mapValidator accepts the declarative {pattern, message} shape. Anything
// else non-nil on an input-phone question falls back to the stock phone
// check, which covers backends still emitting opaque validator source.
func mapValidator(t Type, raw any) *Validator {
	if raw == nil {
		return nil
	}
	if entry, ok := raw.(map[string]any); ok {
		pattern := stringAt(entry, "pattern")
		if pattern != "" {
			v := &Validator{Pattern: pattern, Message: stringAt(entry, "message")}
			if err := v.compile(); err != nil {
				return nil
			}
			return v
		}
	}
	if t == TypeInputPhone {
		return PhoneValidator()
	}
	return nil
}

func mapAnswers(questions []Question, raw any) map[string]Answer {
	initial, _ := raw.(map[string]any)
	answers := make(map[string]Answer, len(questions))
	for _, q := range questions {
		entry, present := initial[q.ID]
		if q.Type == TypeCheckbox {
			answers[q.ID] = MultiSelect(mapOptions(entry))
			continue
		}
		if !present {
			answers[q.ID] = Unanswered()
			continue
		}
		if boxed, ok := entry.(map[string]any); ok {
			answers[q.ID] = Scalar(boxed["value"])
			continue
		}
		answers[q.ID] = Scalar(entry)
	}
	return answers
}

func asSlice(raw any) []any {
	switch typed := raw.(type) {
	case []any:
		return typed
	case []map[string]any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = v
		}
		return out
	default:
		return nil
	}
}

func stringAt(entry map[string]any, key string) string {
	s, _ := entry[key].(string)
	return s
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips any markup from remote-supplied display text. Labels
// and descriptions are rendered as plain terminal text, so everything beyond
// the raw words is dropped.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(strings.TrimSpace(textPolicy.Sanitize(trimmed)))
}
