package answers

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/schema"
)

func TestGetUnknownIDReturnsSentinel(t *testing.T) {
	t.Parallel()

	store := New()
	got := store.Get("missing")
	if got.Answered() {
		t.Fatalf("unknown id should be unanswered, got %+v", got)
	}

	var nilStore *Store
	if nilStore.Get("missing").Answered() {
		t.Fatal("nil store read should still return the sentinel")
	}
}

func TestSetScalarMergePreservesMeta(t *testing.T) {
	t.Parallel()

	store := New()
	store.SetMeta("eventType", "source", "prefill")
	store.SetScalar("eventType", "collision")

	got := store.Get("eventType")
	if got.Value != "collision" {
		t.Fatalf("value not written: %+v", got)
	}
	if got.Meta["source"] != "prefill" {
		t.Fatalf("metadata lost on scalar write: %+v", got.Meta)
	}
}

func TestSetRawReplacesWholeEntry(t *testing.T) {
	t.Parallel()

	store := New()
	store.SetMeta("injuredParty", "source", "prefill")

	selected := []schema.Option{{Value: "other", Label: "Other"}}
	store.SetRaw("injuredParty", schema.MultiSelect(selected))

	got := store.Get("injuredParty")
	if diff := cmp.Diff(selected, got.Selected); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if got.Meta != nil {
		t.Fatalf("SetRaw must replace, not merge: %+v", got.Meta)
	}
}

func TestSetRawNormalizesNilSelection(t *testing.T) {
	t.Parallel()

	store := New()
	store.SetRaw("injuredParty", schema.Answer{Kind: schema.AnswerMulti})
	if got := store.Get("injuredParty"); got.Selected == nil {
		t.Fatal("multi-select answers must always be arrays")
	}
}

func TestHiddenAnswersAreRetained(t *testing.T) {
	t.Parallel()

	// Hiding a question does not clear its stored answer; the store has no
	// notion of visibility at all.
	store := New()
	store.SetScalar("whoWasDriving", "other")
	store.SetScalar("eventType", "towing-only")

	if got := store.Get("whoWasDriving"); got.Value != "other" {
		t.Fatalf("answer lost after upstream change: %+v", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	t.Parallel()

	store := New()
	store.SetScalar("a", 1)
	store.SetRaw("b", schema.MultiSelect(nil))
	store.Reset()

	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d entries", store.Len())
	}
}

func TestVisibilityValuesShape(t *testing.T) {
	t.Parallel()

	store := New()
	store.SetScalar("eventType", "collision")
	store.SetRaw("injuredParty", schema.MultiSelect([]schema.Option{{Value: "other", Label: "Other"}}))

	want := map[string]any{
		"eventType":    map[string]any{"value": "collision"},
		"injuredParty": []any{"other"},
	}
	if diff := cmp.Diff(want, store.VisibilityValues()); diff != "" {
		t.Fatalf("visibility projection mismatch (-want +got):\n%s", diff)
	}
}

func TestSeedInstallsInitialAnswers(t *testing.T) {
	t.Parallel()

	store := New()
	store.SetScalar("stale", "leftover")
	store.Seed(map[string]schema.Answer{
		"eventType":    schema.Scalar("collision"),
		"injuredParty": {Kind: schema.AnswerMulti},
	})

	if store.Get("stale").Answered() {
		t.Fatal("seed must replace previous entries")
	}
	if store.Get("injuredParty").Selected == nil {
		t.Fatal("seed must normalize multi-select entries to arrays")
	}
}
