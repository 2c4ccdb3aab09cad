package schema

// Type enumerates the widget kinds a generated questionnaire may contain.
// The wire values match what the form-generation backend emits.
type Type string

const (
	TypeSelect       Type = "select"
	TypeRadio        Type = "radio"
	TypeInput        Type = "input"
	TypeInputPhone   Type = "input-phone"
	TypeNumeric      Type = "numeric"
	TypeYesNo        Type = "yes-or-no"
	TypeYesNoUnknown Type = "yes-or-no-or-unknown"
	TypeCheckbox     Type = "checkbox"
)

// Choice reports whether the type draws its options from the question's
// list-of-values. Yes/no variants synthesize their option sets instead.
func (t Type) Choice() bool {
	switch t {
	case TypeSelect, TypeRadio, TypeCheckbox:
		return true
	default:
		return false
	}
}

// Known reports whether the type is one the renderer can dispatch on.
func (t Type) Known() bool {
	switch t {
	case TypeSelect, TypeRadio, TypeInput, TypeInputPhone, TypeNumeric,
		TypeYesNo, TypeYesNoUnknown, TypeCheckbox:
		return true
	default:
		return false
	}
}

// Option is one entry in a question's list-of-values. Value is any because
// the synthesized yes/no sets carry booleans while remote options carry
// strings.
type Option struct {
	Value       any    `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Question models a single questionnaire entry. Instances are immutable once
// ingested; the answer set carries all mutable state.
type Question struct {
	ID          string     `json:"id"`
	Type        Type       `json:"type"`
	Label       string     `json:"label"`
	Description string     `json:"description,omitempty"`
	Optional    bool       `json:"optional"`
	Options     []Option   `json:"lovs,omitempty"`
	DependsOn   string     `json:"dependsOn,omitempty"`
	Validate    *Validator `json:"validate,omitempty"`
}

// YesNoOptions is the synthesized option set for yes-or-no questions.
func YesNoOptions() []Option {
	return []Option{
		{Value: true, Label: "Yes"},
		{Value: false, Label: "No"},
	}
}

// YesNoUnknownOptions extends YesNoOptions with the "unknown" entry.
func YesNoUnknownOptions() []Option {
	return append(YesNoOptions(), Option{Value: "unknown", Label: "Unknown"})
}

// AnswerKind discriminates the two answer shapes. Scalar questions hold one
// value (possibly nil for unanswered); checkbox questions hold the list of
// selected option records.
type AnswerKind string

const (
	AnswerScalar AnswerKind = "scalar"
	AnswerMulti  AnswerKind = "multi"
)

// Answer is the value stored per question id. Scalar answers use Value;
// multi-select answers use Selected, which is never nil once ingested.
// Meta carries caller-attached fields that merge-style writes must preserve.
type Answer struct {
	Kind     AnswerKind     `json:"kind"`
	Value    any            `json:"value,omitempty"`
	Selected []Option       `json:"selected,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// Scalar builds a scalar answer.
func Scalar(value any) Answer {
	return Answer{Kind: AnswerScalar, Value: value}
}

// MultiSelect builds a multi-select answer. A nil list is normalized to an
// empty one so checkbox answers are always arrays.
func MultiSelect(selected []Option) Answer {
	if selected == nil {
		selected = []Option{}
	}
	return Answer{Kind: AnswerMulti, Selected: selected}
}

// Unanswered is the sentinel returned for ids that have no stored answer.
func Unanswered() Answer {
	return Answer{Kind: AnswerScalar, Value: nil}
}

// Answered reports whether the answer carries a usable value: non-nil for
// scalars, at least one selection for multi-select.
func (a Answer) Answered() bool {
	if a.Kind == AnswerMulti {
		return len(a.Selected) > 0
	}
	return a.Value != nil
}

// Toggled returns the selection list with the given option added when absent
// or removed when present, compared by option value. The receiver is not
// mutated.
func (a Answer) Toggled(opt Option) []Option {
	for i, cur := range a.Selected {
		if cur.Value == opt.Value {
			out := make([]Option, 0, len(a.Selected)-1)
			out = append(out, a.Selected[:i]...)
			out = append(out, a.Selected[i+1:]...)
			return out
		}
	}
	out := make([]Option, 0, len(a.Selected)+1)
	out = append(out, a.Selected...)
	out = append(out, opt)
	return out
}
