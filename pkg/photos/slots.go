// Package photos manages the per-orientation image slots collected during
// the upload steps. Slots follow the same set/clear lifecycle as answers but
// are independent of the answer store and carry no dependency rules.
package photos

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Orientation tags one of the eight fixed capture angles around the vehicle.
type Orientation string

const (
	Front      Orientation = "f"
	FrontLeft  Orientation = "fl"
	Left       Orientation = "l"
	BackLeft   Orientation = "bl"
	Back       Orientation = "b"
	BackRight  Orientation = "br"
	Right      Orientation = "r"
	FrontRight Orientation = "fr"
)

// Orientations returns the capture order the wizard walks through.
func Orientations() []Orientation {
	return []Orientation{Front, FrontLeft, Left, BackLeft, Back, BackRight, Right, FrontRight}
}

// Valid reports whether o is one of the eight known orientations.
func (o Orientation) Valid() bool {
	switch o {
	case Front, FrontLeft, Left, BackLeft, Back, BackRight, Right, FrontRight:
		return true
	default:
		return false
	}
}

// Title is the display heading for the orientation's upload step.
func (o Orientation) Title() string {
	switch o {
	case Front:
		return "Front of the vehicle"
	case FrontLeft:
		return "Front left corner"
	case Left:
		return "Left side"
	case BackLeft:
		return "Back left corner"
	case Back:
		return "Back of the vehicle"
	case BackRight:
		return "Back right corner"
	case Right:
		return "Right side"
	case FrontRight:
		return "Front right corner"
	default:
		return string(o)
	}
}

// Photo is one acquired image. Sample marks photos installed through the
// sample path; downstream handling does not distinguish them.
type Photo struct {
	Name        string
	ContentType string
	Data        []byte
	Sample      bool
}

// ErrNotImage is returned when an acquired payload does not sniff as an
// image. The slot is left unchanged.
var ErrNotImage = errors.New("photos: payload is not an image")

// ErrUnknownOrientation is returned for orientation tags outside the fixed
// set of eight.
var ErrUnknownOrientation = errors.New("photos: unknown orientation")

// Slots holds the eight orientation slots for one wizard session.
type Slots struct {
	byOrientation map[Orientation]Photo
}

// NewSlots creates an empty slot set.
func NewSlots() *Slots {
	return &Slots{byOrientation: make(map[Orientation]Photo, 8)}
}

// Set installs a photo into the orientation's slot after sniffing its MIME
// type. Non-image payloads are rejected without mutating the slot.
func (s *Slots) Set(o Orientation, name string, data []byte) error {
	if !o.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOrientation, o)
	}
	if len(data) == 0 {
		return fmt.Errorf("photos: empty payload for orientation %q", o)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w (orientation %q, detected %s)", ErrNotImage, o, contentType)
	}
	s.byOrientation[o] = Photo{Name: name, ContentType: contentType, Data: data}
	return nil
}

// Get returns the photo for the orientation, if set.
func (s *Slots) Get(o Orientation) (Photo, bool) {
	photo, ok := s.byOrientation[o]
	return photo, ok
}

// Clear empties the orientation's slot. Dropping the buffer releases the
// only reference held to the image bytes.
func (s *Slots) Clear(o Orientation) {
	delete(s.byOrientation, o)
}

// Complete reports whether the orientation's slot is non-empty, which is the
// only criterion the navigator checks before advancing past its step.
func (s *Slots) Complete(o Orientation) bool {
	_, ok := s.byOrientation[o]
	return ok
}

// AllComplete reports whether every orientation has a photo.
func (s *Slots) AllComplete() bool {
	for _, o := range Orientations() {
		if !s.Complete(o) {
			return false
		}
	}
	return true
}

// Reset clears every slot.
func (s *Slots) Reset() {
	s.byOrientation = make(map[Orientation]Photo, 8)
}

// Count reports the number of populated slots.
func (s *Slots) Count() int {
	return len(s.byOrientation)
}

// Snapshot copies the populated slots into a fresh map for submission or
// persistence. The image bytes are shared, not copied.
func (s *Slots) Snapshot() map[Orientation]Photo {
	out := make(map[Orientation]Photo, len(s.byOrientation))
	for o, photo := range s.byOrientation {
		out[o] = photo
	}
	return out
}
