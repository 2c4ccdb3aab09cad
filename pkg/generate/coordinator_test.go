package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-intake/pkg/photos"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/wizard"
)

var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 16)...)

type stubClient struct {
	payload    schema.Payload
	err        error
	analyzeErr error

	textCalls  int
	imageCalls int
	analyzed   bool
	gotAnswers map[string]schema.Answer
}

func (s *stubClient) GenerateForm(context.Context, string) (schema.Payload, error) {
	s.textCalls++
	return s.payload, s.err
}

func (s *stubClient) GenerateFormWithImage(context.Context, string, photos.Photo) (schema.Payload, error) {
	s.imageCalls++
	return s.payload, s.err
}

func (s *stubClient) Analyze(_ context.Context, _ wizard.Scope, _ string, answers map[string]schema.Answer, _ map[photos.Orientation]photos.Photo) (string, error) {
	s.analyzed = true
	s.gotAnswers = answers
	return "## Damage assessment\nminor rear damage", s.analyzeErr
}

func stubPayload() schema.Payload {
	return schema.Payload{
		Questions: []schema.Question{
			{ID: "eventType", Type: schema.TypeInput, Label: "Event"},
		},
		Answers: map[string]schema.Answer{"eventType": schema.Unanswered()},
	}
}

func TestGenerateSelectsEndpointByPhoto(t *testing.T) {
	t.Parallel()

	client := &stubClient{payload: stubPayload()}
	nav := wizard.NewNavigator(wizard.NewSession(wizard.Scope{}))
	coord := New(nav, client)

	if err := coord.Generate(context.Background(), "rear-ended at a light", nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if client.textCalls != 1 || client.imageCalls != 0 {
		t.Fatalf("expected text-only call, got text=%d image=%d", client.textCalls, client.imageCalls)
	}
	if nav.State() != wizard.StateAnswering {
		t.Fatalf("expected answering, got %s", nav.State())
	}

	nav.Restart()
	photo := photos.Photo{Name: "damage.jpg", ContentType: "image/jpeg", Data: jpegBytes}
	if err := coord.Generate(context.Background(), "rear-ended at a light", &photo); err != nil {
		t.Fatalf("Generate with image: %v", err)
	}
	if client.imageCalls != 1 {
		t.Fatalf("expected image call, got %d", client.imageCalls)
	}
}

func TestGenerateFailureLeavesSessionIntact(t *testing.T) {
	t.Parallel()

	client := &stubClient{err: errors.New("description required")}
	session := wizard.NewSession(wizard.Scope{})
	nav := wizard.NewNavigator(session)
	coord := New(nav, client)

	err := coord.Generate(context.Background(), "x", nil)
	if err == nil || err.Error() != "description required" {
		t.Fatalf("expected verbatim failure, got %v", err)
	}
	if nav.State() != wizard.StateError || nav.ErrorMessage() != "description required" {
		t.Fatalf("error state not armed: %s %q", nav.State(), nav.ErrorMessage())
	}
	if session.HasForm() || session.Store.Len() != 0 {
		t.Fatal("failed generation touched the session")
	}
}

func TestSubmitSendsSnapshotAndFinishes(t *testing.T) {
	t.Parallel()

	client := &stubClient{payload: stubPayload()}
	session := wizard.NewSession(wizard.Scope{PolicyID: "pol-9"})
	nav := wizard.NewNavigator(session)
	coord := New(nav, client)

	if err := coord.Generate(context.Background(), "desc", nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	session.Store.SetScalar("eventType", "collision")
	if err := nav.FinishAnswering(); err != nil {
		t.Fatalf("FinishAnswering: %v", err)
	}
	for _, o := range photos.Orientations() {
		if err := session.Slots.Set(o, string(o)+".jpg", jpegBytes); err != nil {
			t.Fatalf("set %s: %v", o, err)
		}
		if err := nav.NextUpload(); err != nil {
			t.Fatalf("NextUpload %s: %v", o, err)
		}
	}

	if err := coord.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !client.analyzed {
		t.Fatal("Analyze never called")
	}
	if client.gotAnswers["eventType"].Value != "collision" {
		t.Fatalf("snapshot missing edits: %+v", client.gotAnswers)
	}
	if nav.State() != wizard.StateDone {
		t.Fatalf("expected done, got %s", nav.State())
	}
	if coord.Report() == "" {
		t.Fatal("analysis report not captured")
	}
}

func TestSubmitOutsideSubmittingState(t *testing.T) {
	t.Parallel()

	nav := wizard.NewNavigator(wizard.NewSession(wizard.Scope{}))
	coord := New(nav, &stubClient{})

	if err := coord.Submit(context.Background()); !errors.Is(err, wizard.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
