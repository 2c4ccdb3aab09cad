package schema

import (
	"errors"
	"fmt"
)

var (
	errQuestionIDMissing = errors.New("schema: question id is required")
	errQuestionNoLabel   = errors.New("schema: question label is required")
)

// ValidateQuestions performs the one-time static shape check on an ingested
// schema. Choice questions without options are rejected here so the renderer
// can assume every select/radio/checkbox has at least one entry.
func ValidateQuestions(questions []Question) error {
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if err := validateQuestion(q); err != nil {
			return err
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("schema: duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

func validateQuestion(q Question) error {
	if q.ID == "" {
		return errQuestionIDMissing
	}
	if q.Label == "" {
		return fmt.Errorf("%w (question %q)", errQuestionNoLabel, q.ID)
	}
	if !q.Type.Known() {
		return fmt.Errorf("schema: question %q has unknown type %q", q.ID, q.Type)
	}
	if q.Type.Choice() && len(q.Options) == 0 {
		return fmt.Errorf("schema: question %q of type %q requires options", q.ID, q.Type)
	}
	return nil
}
