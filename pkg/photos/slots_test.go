package photos

import (
	"context"
	"errors"
	"testing"
)

// Minimal real payload headers for MIME sniffing.
var (
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 16)...)
	pngBytes  = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, make([]byte, 16)...)
	pdfBytes  = []byte("%PDF-1.4 not an image")
)

func TestSetAcceptsImages(t *testing.T) {
	t.Parallel()

	slots := NewSlots()
	if err := slots.Set(Front, "front.jpg", jpegBytes); err != nil {
		t.Fatalf("jpeg rejected: %v", err)
	}
	if err := slots.Set(Left, "left.png", pngBytes); err != nil {
		t.Fatalf("png rejected: %v", err)
	}

	photo, ok := slots.Get(Front)
	if !ok || photo.ContentType != "image/jpeg" {
		t.Fatalf("unexpected photo: %+v (ok=%v)", photo, ok)
	}
}

func TestSetRejectsNonImageWithoutMutation(t *testing.T) {
	t.Parallel()

	slots := NewSlots()
	if err := slots.Set(Front, "front.jpg", jpegBytes); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	err := slots.Set(Front, "doc.pdf", pdfBytes)
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}

	photo, ok := slots.Get(Front)
	if !ok || photo.Name != "front.jpg" {
		t.Fatalf("slot mutated by rejected upload: %+v", photo)
	}
}

func TestSetRejectsUnknownOrientation(t *testing.T) {
	t.Parallel()

	slots := NewSlots()
	if err := slots.Set(Orientation("top"), "top.jpg", jpegBytes); !errors.Is(err, ErrUnknownOrientation) {
		t.Fatalf("expected ErrUnknownOrientation, got %v", err)
	}
}

func TestAllComplete(t *testing.T) {
	t.Parallel()

	slots := NewSlots()
	for _, o := range Orientations() {
		if slots.AllComplete() {
			t.Fatal("AllComplete true with empty slots")
		}
		if err := slots.Set(o, string(o)+".jpg", jpegBytes); err != nil {
			t.Fatalf("set %s: %v", o, err)
		}
	}
	if !slots.AllComplete() {
		t.Fatal("expected AllComplete after filling all eight")
	}

	slots.Clear(BackRight)
	if slots.AllComplete() {
		t.Fatal("AllComplete true with a cleared slot")
	}
}

type stubFetcher struct {
	data []byte
	err  error
}

func (f stubFetcher) FetchSample(_ context.Context, _ string, _ Orientation) ([]byte, error) {
	return f.data, f.err
}

func TestUseSampleInstallsLikeUpload(t *testing.T) {
	t.Parallel()

	slots := NewSlots()
	err := slots.UseSample(context.Background(), stubFetcher{data: jpegBytes}, "pol-123", Back)
	if err != nil {
		t.Fatalf("UseSample returned error: %v", err)
	}
	photo, ok := slots.Get(Back)
	if !ok || !photo.Sample || photo.ContentType != "image/jpeg" {
		t.Fatalf("unexpected sample photo: %+v (ok=%v)", photo, ok)
	}
}

func TestUseSampleFetchFailureLeavesSlotUnchanged(t *testing.T) {
	t.Parallel()

	slots := NewSlots()
	if err := slots.Set(Back, "user.jpg", jpegBytes); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	fetchErr := errors.New("404 not found")
	err := slots.UseSample(context.Background(), stubFetcher{err: fetchErr}, "pol-123", Back)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}

	photo, _ := slots.Get(Back)
	if photo.Name != "user.jpg" || photo.Sample {
		t.Fatalf("slot mutated by failed sample fetch: %+v", photo)
	}
}
