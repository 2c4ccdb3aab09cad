package expr

import (
	"testing"

	"github.com/goliatone/go-intake/pkg/visibility"
)

func answers(values map[string]any) visibility.Context {
	return visibility.Context{Values: values}
}

func TestCompileEmptyRuleAlwaysVisible(t *testing.T) {
	t.Parallel()

	pred, err := Compile("   ")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	ok, err := pred(answers(nil))
	if err != nil || !ok {
		t.Fatalf("expected always visible, got %v / %v", ok, err)
	}
}

func TestCompileEquality(t *testing.T) {
	t.Parallel()

	pred, err := Compile(`eventType == "collision"`)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	ok, err := pred(answers(map[string]any{"eventType": map[string]any{"value": "collision"}}))
	if err != nil || !ok {
		t.Fatalf("expected visible for collision, got %v / %v", ok, err)
	}

	ok, err = pred(answers(map[string]any{"eventType": map[string]any{"value": "towing-only"}}))
	if err != nil || ok {
		t.Fatalf("expected hidden for towing-only, got %v / %v", ok, err)
	}
}

func TestCompileAbsentKeyEvaluatesAsNull(t *testing.T) {
	t.Parallel()

	pred, err := Compile(`whoWasDriving == "other"`)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	ok, err := pred(answers(map[string]any{}))
	if err != nil {
		t.Fatalf("absent key must not error: %v", err)
	}
	if ok {
		t.Fatal("absent key must not satisfy equality")
	}

	pred, err = Compile("whoWasDriving == null")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	ok, err = pred(answers(map[string]any{}))
	if err != nil || !ok {
		t.Fatalf("absent key should equal null, got %v / %v", ok, err)
	}
}

func TestCompileMembership(t *testing.T) {
	t.Parallel()

	pred, err := Compile(`eventType in ["collision", "vehicle-vandalized", "damage-caused-by-fire"]`)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	for value, want := range map[string]bool{
		"collision":          true,
		"vehicle-vandalized": true,
		"towing-only":        false,
	} {
		ok, err := pred(answers(map[string]any{"eventType": map[string]any{"value": value}}))
		if err != nil {
			t.Fatalf("eval %q: %v", value, err)
		}
		if ok != want {
			t.Fatalf("membership for %q = %v, want %v", value, ok, want)
		}
	}

	// Unanswered never matches a membership list.
	ok, err := pred(answers(map[string]any{"eventType": map[string]any{"value": nil}}))
	if err != nil || ok {
		t.Fatalf("nil value should not match, got %v / %v", ok, err)
	}
}

func TestCompileBooleanAnswers(t *testing.T) {
	t.Parallel()

	pred, err := Compile(`wasVehicleTowed == true && eventType == "collision"`)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	ok, err := pred(answers(map[string]any{
		"wasVehicleTowed": map[string]any{"value": true},
		"eventType":       map[string]any{"value": "collision"},
	}))
	if err != nil || !ok {
		t.Fatalf("expected visible, got %v / %v", ok, err)
	}

	// nil is not false: `== true` fails, and so would `== false`.
	predFalse, err := Compile("wasVehicleTowed == false")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	ok, err = predFalse(answers(map[string]any{"wasVehicleTowed": map[string]any{"value": nil}}))
	if err != nil || ok {
		t.Fatalf("nil must not equal false, got %v / %v", ok, err)
	}
}

func TestCompileComposition(t *testing.T) {
	t.Parallel()

	pred, err := Compile(`(eventType == "collision" || eventType == "theft") && !resolved`)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	ok, err := pred(answers(map[string]any{
		"eventType": map[string]any{"value": "theft"},
		"resolved":  map[string]any{"value": false},
	}))
	if err != nil || !ok {
		t.Fatalf("expected visible, got %v / %v", ok, err)
	}
}

func TestCompileRejectsMalformedRules(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{
		`eventType = "collision"`,
		`eventType in "collision"`,
		`eventType in ["collision"`,
		`== "collision"`,
		`eventType && (`,
	} {
		if _, err := Compile(rule); err == nil {
			t.Fatalf("expected compile error for %q", rule)
		}
	}
}

func TestCompileNumericComparison(t *testing.T) {
	t.Parallel()

	pred, err := Compile("numOtherVehicles != 0")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	// Numeric answers arrive as strings from free-text widgets.
	ok, err := pred(answers(map[string]any{"numOtherVehicles": map[string]any{"value": "2"}}))
	if err != nil || !ok {
		t.Fatalf("expected visible for \"2\", got %v / %v", ok, err)
	}
	ok, err = pred(answers(map[string]any{"numOtherVehicles": map[string]any{"value": "0"}}))
	if err != nil || ok {
		t.Fatalf("expected hidden for \"0\", got %v / %v", ok, err)
	}
}
