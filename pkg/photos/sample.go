package photos

import (
	"context"
	"fmt"
)

// SampleFetcher retrieves the known sample image for a case identity and
// orientation. The HTTP client implements this against
// GET /sample/{caseID}/{orientation}.jpg.
type SampleFetcher interface {
	FetchSample(ctx context.Context, caseID string, o Orientation) ([]byte, error)
}

// UseSample fetches the sample image and installs it exactly as if the user
// had provided it, so downstream handling is acquisition-agnostic. A failed
// fetch reports the error and leaves the slot unchanged.
func (s *Slots) UseSample(ctx context.Context, fetcher SampleFetcher, caseID string, o Orientation) error {
	if fetcher == nil {
		return fmt.Errorf("photos: no sample fetcher configured")
	}
	data, err := fetcher.FetchSample(ctx, caseID, o)
	if err != nil {
		return fmt.Errorf("photos: fetch sample %s/%s: %w", caseID, o, err)
	}
	if err := s.Set(o, fmt.Sprintf("%s.jpg", o), data); err != nil {
		return err
	}
	photo := s.byOrientation[o]
	photo.Sample = true
	s.byOrientation[o] = photo
	return nil
}
