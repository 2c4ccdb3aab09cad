package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-intake/pkg/photos"
	"github.com/goliatone/go-intake/pkg/schema"
)

// State names one step of the wizard's finite flow.
type State string

const (
	StateDescribe   State = "describe"
	StateGenerating State = "generating"
	StateAnswering  State = "answering"
	StateUploading  State = "uploading"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
	StateError      State = "error"
)

var (
	// ErrEmptyDescription blocks Describe -> Generating until the user has
	// typed something.
	ErrEmptyDescription = errors.New("wizard: description must not be empty")
	// ErrPhotoMissing blocks an upload step whose slot is still empty.
	ErrPhotoMissing = errors.New("wizard: photo slot is empty")
	// ErrInvalidTransition reports a step change the current state does not
	// permit.
	ErrInvalidTransition = errors.New("wizard: invalid transition")
)

// Navigator is the finite-state controller for one session. It only changes
// state when the step-local completion criteria hold; it performs no I/O
// itself. Completion callbacks carry the session id captured when the
// operation started so stale results are discarded silently.
type Navigator struct {
	session   *Session
	state     State
	uploadIdx int
	errMsg    string
	retryTo   State
}

// NewNavigator starts a navigator at the describe step.
func NewNavigator(session *Session) *Navigator {
	return &Navigator{session: session, state: StateDescribe}
}

// State reports the current step.
func (n *Navigator) State() State {
	return n.state
}

// Session exposes the session this navigator drives.
func (n *Navigator) Session() *Session {
	return n.session
}

// ErrorMessage returns the message shown in the error state, verbatim from
// the server's detail when one was provided.
func (n *Navigator) ErrorMessage() string {
	return n.errMsg
}

// UploadOrientation returns the orientation the current upload step is
// collecting. Only meaningful in StateUploading.
func (n *Navigator) UploadOrientation() photos.Orientation {
	order := photos.Orientations()
	if n.uploadIdx < 0 || n.uploadIdx >= len(order) {
		return order[0]
	}
	return order[n.uploadIdx]
}

// BeginGenerate validates the description and enters Generating. The state
// itself is the in-flight guard: a second generate cannot start until the
// first completes or the session restarts.
func (n *Navigator) BeginGenerate(description string) error {
	if n.state != StateDescribe {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.state, StateGenerating)
	}
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	n.session.Description = description
	n.state = StateGenerating
	return nil
}

// FinishGenerate applies the outcome of the remote generation call. Results
// whose epoch no longer matches the session (the user reset or restarted)
// are dropped without touching any state. Failures surface the error message
// and arm the retry affordance; nothing is partially overwritten.
func (n *Navigator) FinishGenerate(epoch uuid.UUID, payload schema.Payload, err error) {
	if n.state != StateGenerating || epoch != n.session.ID() {
		return
	}
	if err != nil {
		n.fail(err, StateGenerating)
		return
	}
	n.session.Install(payload)
	n.state = StateAnswering
}

// FinishAnswering moves from answering to the first upload step. There is
// deliberately no aggregate validation pass here: each widget enforces its
// own inline checks and nothing blocks submission on outstanding ones.
func (n *Navigator) FinishAnswering() error {
	if n.state != StateAnswering {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.state, StateUploading)
	}
	n.state = StateUploading
	n.uploadIdx = 0
	return nil
}

// NextUpload advances past the current upload step. It requires that step's
// slot to be populated; other slots are not consulted. The final orientation
// advances into Submitting.
func (n *Navigator) NextUpload() error {
	if n.state != StateUploading {
		return fmt.Errorf("%w: %s -> next upload", ErrInvalidTransition, n.state)
	}
	current := n.UploadOrientation()
	if !n.session.Slots.Complete(current) {
		return fmt.Errorf("%w (orientation %q)", ErrPhotoMissing, current)
	}
	if n.uploadIdx+1 < len(photos.Orientations()) {
		n.uploadIdx++
		return nil
	}
	n.state = StateSubmitting
	return nil
}

// BackToAnswering returns from the pre-submit review to the questionnaire.
// Answers and photo slots are untouched.
func (n *Navigator) BackToAnswering() error {
	if n.state != StateSubmitting {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.state, StateAnswering)
	}
	n.state = StateAnswering
	return nil
}

// FinishSubmit applies the outcome of the final submission call, with the
// same stale-epoch guard as FinishGenerate.
func (n *Navigator) FinishSubmit(epoch uuid.UUID, err error) {
	if n.state != StateSubmitting || epoch != n.session.ID() {
		return
	}
	if err != nil {
		n.fail(err, StateSubmitting)
		return
	}
	n.state = StateDone
}

// Retry re-enters the state that failed. Only valid in the error state; the
// caller then re-fires the corresponding remote call.
func (n *Navigator) Retry() (State, error) {
	if n.state != StateError {
		return n.state, fmt.Errorf("%w: retry outside error state", ErrInvalidTransition)
	}
	n.state = n.retryTo
	n.errMsg = ""
	return n.state, nil
}

// Restart discards all in-progress data from any state and returns to the
// first step.
func (n *Navigator) Restart() {
	n.session.Reset()
	n.state = StateDescribe
	n.uploadIdx = 0
	n.errMsg = ""
	n.retryTo = ""
}

// Reset is Restart exposed under the name the done step uses.
func (n *Navigator) Reset() {
	n.Restart()
}

func (n *Navigator) fail(err error, retryTo State) {
	n.errMsg = err.Error()
	n.retryTo = retryTo
	n.state = StateError
}
