package visibility

// Context provides the inputs a dependency predicate evaluates against.
// Values is the full current answer map keyed by question id; entries are
// either answer records (maps carrying a "value" key), raw scalars, or
// selection lists for multi-select questions.
type Context struct {
	Values map[string]any
}

// Predicate decides whether a question is visible given the current answers.
// Visibility requires a strict true with no error; any error means hidden.
type Predicate func(Context) (bool, error)

// Always is the predicate used when a question declares no dependency rule.
func Always(Context) (bool, error) { return true, nil }

// Never hides a question unconditionally. Used as the fallback when a
// dependency rule fails to compile, so a malformed rule can never reveal a
// question it was meant to gate.
func Never(Context) (bool, error) { return false, nil }
