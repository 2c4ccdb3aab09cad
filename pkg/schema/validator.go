package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator describes a per-field input check supplied by the schema. It is
// advisory: widgets surface the message inline and never block entry.
type Validator struct {
	Pattern string `json:"pattern"`
	Message string `json:"message,omitempty"`

	re *regexp.Regexp
}

// PhoneValidator is the check applied to input-phone questions when the
// backend supplies one.
func PhoneValidator() *Validator {
	v := &Validator{
		Pattern: `^\d{3}-\d{3}-\d{4}$`,
		Message: "Phone format should be xxx-xxx-xxxx",
	}
	_ = v.compile()
	return v
}

func (v *Validator) compile() error {
	if v.re != nil {
		return nil
	}
	re, err := regexp.Compile(v.Pattern)
	if err != nil {
		return fmt.Errorf("schema: invalid validator pattern %q: %w", v.Pattern, err)
	}
	v.re = re
	return nil
}

// Check returns an empty string when input passes, otherwise the
// human-readable message to show inline. Empty input is never flagged; the
// optional flag is the schema's concern, not the validator's.
func (v *Validator) Check(input string) string {
	if v == nil {
		return ""
	}
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if err := v.compile(); err != nil {
		return ""
	}
	if v.re.MatchString(input) {
		return ""
	}
	if v.Message != "" {
		return v.Message
	}
	return fmt.Sprintf("value does not match %s", v.Pattern)
}
