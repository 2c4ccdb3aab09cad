// Package generate coordinates the remote calls a wizard run makes: schema
// generation from the incident description and the final case submission.
package generate

import (
	"context"

	"github.com/goliatone/go-intake/pkg/photos"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/wizard"
)

// Client is the remote surface the coordinator needs. The HTTP client in
// pkg/client implements it.
type Client interface {
	// GenerateForm produces a questionnaire from the description alone.
	GenerateForm(ctx context.Context, description string) (schema.Payload, error)
	// GenerateFormWithImage additionally sends a supporting photo.
	GenerateFormWithImage(ctx context.Context, description string, photo photos.Photo) (schema.Payload, error)
	// Analyze submits the finished case: scope, description, answers and the
	// eight orientation photos. It returns the analysis report for display.
	Analyze(ctx context.Context, scope wizard.Scope, description string, answers map[string]schema.Answer, shots map[photos.Orientation]photos.Photo) (string, error)
}

// Coordinator owns the remote side of one wizard run. Each call captures the
// session id before going remote and reports the outcome back through the
// navigator, which discards results for a session that no longer exists.
type Coordinator struct {
	nav    *wizard.Navigator
	client Client
	report string
}

// New wires a coordinator to a navigator and a remote client.
func New(nav *wizard.Navigator, client Client) *Coordinator {
	return &Coordinator{nav: nav, client: client}
}

// Pending reports whether a remote call's outcome is still outstanding.
func (c *Coordinator) Pending() bool {
	state := c.nav.State()
	return state == wizard.StateGenerating || state == wizard.StateSubmitting
}

// Generate runs the description through the navigator gate and the remote
// generation call. Passing a photo selects the image-assisted variant;
// otherwise the text-only endpoint is used. The schema and its answers are
// installed as one unit on success; on failure the session keeps whatever it
// had before.
func (c *Coordinator) Generate(ctx context.Context, description string, photo *photos.Photo) error {
	if err := c.nav.BeginGenerate(description); err != nil {
		return err
	}
	session := c.nav.Session()
	epoch := session.ID()

	var (
		payload schema.Payload
		err     error
	)
	if photo != nil {
		payload, err = c.client.GenerateFormWithImage(ctx, session.Description, *photo)
	} else {
		payload, err = c.client.GenerateForm(ctx, session.Description)
	}
	c.nav.FinishGenerate(epoch, payload, err)
	return err
}

// Regenerate re-fires the text-only generation call after a retry, when the
// navigator is already in the generating state and holds the description.
func (c *Coordinator) Regenerate(ctx context.Context) error {
	if c.nav.State() != wizard.StateGenerating {
		return wizard.ErrInvalidTransition
	}
	session := c.nav.Session()
	epoch := session.ID()

	payload, err := c.client.GenerateForm(ctx, session.Description)
	c.nav.FinishGenerate(epoch, payload, err)
	return err
}

// Submit sends the completed case for analysis. The navigator must already be
// in the submitting state, which NextUpload only reaches once all eight
// orientation slots are populated.
func (c *Coordinator) Submit(ctx context.Context) error {
	if c.nav.State() != wizard.StateSubmitting {
		return wizard.ErrInvalidTransition
	}
	session := c.nav.Session()
	epoch := session.ID()

	report, err := c.client.Analyze(ctx, session.Scope, session.Description, session.Store.Snapshot(), session.Slots.Snapshot())
	if err == nil {
		c.report = report
	}
	c.nav.FinishSubmit(epoch, err)
	return err
}

// Report returns the analysis report from the last successful submission.
func (c *Coordinator) Report() string {
	return c.report
}
