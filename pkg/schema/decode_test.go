package schema

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const samplePayload = `{
  "questions": [
    {
      "id": "eventType",
      "type": "select",
      "label": "Select Event",
      "description": null,
      "optional": false,
      "dependsOn": null,
      "validate": null,
      "lovs": [
        {"value": "collision", "label": "Collision", "description": "Involvement in a vehicular accident."},
        {"value": "towing-only", "label": "Towing Only", "description": null}
      ]
    },
    {
      "id": "wasVehicleTowed",
      "type": "yes-or-no",
      "label": "Was your vehicle towed?",
      "dependsOn": "eventType == \"collision\"",
      "lovs": null
    },
    {
      "id": "otherDriverPhoneNumber",
      "type": "input-phone",
      "label": "Other Driver Phone Number",
      "optional": true,
      "validate": {"pattern": "^\\d{3}-\\d{3}-\\d{4}$", "message": "Phone format should be xxx-xxx-xxxx"}
    },
    {
      "id": "injuredParty",
      "type": "checkbox",
      "label": "Insured (Injured Party)",
      "lovs": [{"value": "other", "label": "Other"}]
    }
  ],
  "answers": {
    "eventType": {"value": "collision"},
    "wasVehicleTowed": {"value": null},
    "injuredParty": []
  }
}`

func TestDecodePayload(t *testing.T) {
	t.Parallel()

	payload, err := DecodePayload(context.Background(), []byte(samplePayload))
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}

	if got := len(payload.Questions); got != 4 {
		t.Fatalf("expected 4 questions, got %d", got)
	}

	first := payload.Questions[0]
	want := Question{
		ID:    "eventType",
		Type:  TypeSelect,
		Label: "Select Event",
		Options: []Option{
			{Value: "collision", Label: "Collision", Description: "Involvement in a vehicular accident."},
			{Value: "towing-only", Label: "Towing Only"},
		},
	}
	if diff := cmp.Diff(want, first, cmpopts.IgnoreUnexported(Validator{})); diff != "" {
		t.Fatalf("question mismatch (-want +got):\n%s", diff)
	}

	if payload.Questions[1].DependsOn != `eventType == "collision"` {
		t.Fatalf("dependsOn not carried: %q", payload.Questions[1].DependsOn)
	}
	if payload.Questions[2].Validate == nil {
		t.Fatal("expected phone validator")
	}
}

func TestDecodePayloadAnswerShapes(t *testing.T) {
	t.Parallel()

	payload, err := DecodePayload(context.Background(), []byte(samplePayload))
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}

	if got := payload.Answers["eventType"]; got.Kind != AnswerScalar || got.Value != "collision" {
		t.Fatalf("unexpected eventType answer: %+v", got)
	}

	// Keyed but null stays an unanswered scalar, not a crash.
	if got := payload.Answers["wasVehicleTowed"]; got.Answered() {
		t.Fatalf("expected unanswered, got %+v", got)
	}

	// Missing key for a known question resolves to the unanswered sentinel.
	if got, ok := payload.Answers["otherDriverPhoneNumber"]; !ok || got.Answered() {
		t.Fatalf("expected unanswered sentinel for missing key, got %+v (ok=%v)", got, ok)
	}

	// Checkbox answers are always arrays, never nil.
	box := payload.Answers["injuredParty"]
	if box.Kind != AnswerMulti || box.Selected == nil {
		t.Fatalf("checkbox answer not an array: %+v", box)
	}
}

func TestDecodePayloadRejectsChoiceWithoutOptions(t *testing.T) {
	t.Parallel()

	raw := `{
	  "questions": [{"id": "q1", "type": "radio", "label": "Pick one", "lovs": []}],
	  "answers": {}
	}`
	if _, err := DecodePayload(context.Background(), []byte(raw)); err == nil {
		t.Fatal("expected schema error for radio without options")
	}
}

func TestDecodePayloadRejectsMalformedEnvelope(t *testing.T) {
	t.Parallel()

	if _, err := DecodePayload(context.Background(), []byte(`{"questions": {}}`)); err == nil {
		t.Fatal("expected error for non-array questions")
	}
}

func TestDecodePayloadSanitizesMarkup(t *testing.T) {
	t.Parallel()

	raw := `{
	  "questions": [{"id": "q1", "type": "input", "label": "<script>alert(1)</script>Name"}],
	  "answers": {}
	}`
	payload, err := DecodePayload(context.Background(), []byte(raw))
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if got := payload.Questions[0].Label; got != "Name" {
		t.Fatalf("label not sanitized: %q", got)
	}
}
