package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-intake/pkg/photos"
	"github.com/goliatone/go-intake/pkg/wizard"
)

const (
	uploadUseSample = "Use the sample photo"
	uploadFromFile  = "Provide a file path"
)

// RunUploads walks the eight orientation steps. Each step loops until its
// slot holds an image and the navigator lets it advance; a rejected payload
// or failed sample fetch reports and re-prompts without losing other slots.
func (r *Renderer) RunUploads(ctx context.Context, nav *wizard.Navigator, fetcher photos.SampleFetcher) error {
	session := nav.Session()
	total := len(photos.Orientations())

	for nav.State() == wizard.StateUploading {
		o := nav.UploadOrientation()
		heading := fmt.Sprintf("Photo %d of %d: %s", stepNumber(o), total, o.Title())
		if err := r.driver.Info(ctx, r.theme.Heading.Render(heading)); err != nil {
			return err
		}

		if session.Slots.Complete(o) {
			keep, err := r.driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("Keep the existing photo for %s?", o.Title()),
				Default: true,
			})
			if err != nil {
				return err
			}
			if keep {
				if err := nav.NextUpload(); err != nil {
					return err
				}
				continue
			}
			session.Slots.Clear(o)
		}

		if err := r.acquire(ctx, session, o, fetcher); err != nil {
			if err == ErrAborted || ctx.Err() != nil {
				return err
			}
			if infoErr := r.driver.Info(ctx, r.theme.Error.Render(err.Error())); infoErr != nil {
				return infoErr
			}
			continue
		}
		if err := nav.NextUpload(); err != nil {
			if infoErr := r.driver.Info(ctx, r.theme.Error.Render(err.Error())); infoErr != nil {
				return infoErr
			}
		}
	}
	return nil
}

func stepNumber(o photos.Orientation) int {
	for i, cur := range photos.Orientations() {
		if cur == o {
			return i + 1
		}
	}
	return 1
}

func (r *Renderer) acquire(ctx context.Context, session *wizard.Session, o photos.Orientation, fetcher photos.SampleFetcher) error {
	options := []string{uploadFromFile}
	if fetcher != nil {
		options = append([]string{uploadUseSample}, options...)
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: fmt.Sprintf("How do you want to provide the %s photo?", o.Title()),
		Options: options,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: selection out of range for orientation %q", o)
	}

	switch options[idx] {
	case uploadUseSample:
		return session.Slots.UseSample(ctx, fetcher, session.Scope.PolicyID, o)
	default:
		path, err := r.driver.Input(ctx, InputConfig{
			Message: "Path to the image file",
		})
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("tui: read %s: %w", path, err)
		}
		return session.Slots.Set(o, filepath.Base(path), data)
	}
}
