// Command intake runs the guided incident-intake wizard: describe what
// happened, answer the generated questionnaire, photograph the vehicle from
// all eight angles, review and submit.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/internal/sessionstore"
	"github.com/goliatone/go-intake/pkg/client"
	"github.com/goliatone/go-intake/pkg/generate"
	"github.com/goliatone/go-intake/pkg/photos"
	"github.com/goliatone/go-intake/pkg/renderers/tui"
	"github.com/goliatone/go-intake/pkg/report"
	"github.com/goliatone/go-intake/pkg/wizard"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath   string
		themeVariant string
	)

	cmd := &cobra.Command{
		Use:           "intake",
		Short:         "Guided vehicle incident intake",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if themeVariant != "" {
				cfg.Theme.Variant = themeVariant
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "intake.yaml", "configuration file")
	cmd.PersistentFlags().StringVar(&themeVariant, "theme-variant", "", "theme variant (e.g. dark)")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	backend, err := client.New(cfg.BackendURL, client.WithTimeout(time.Duration(cfg.Timeout)))
	if err != nil {
		return err
	}

	session := wizard.NewSession(cfg.Scope, wizard.WithWarn(func(questionID string, err error) {
		log.Printf("dependency rule for %s: %v", questionID, err)
	}))
	nav := wizard.NewNavigator(session)
	coord := generate.New(nav, backend)

	renderer := tui.New(tui.WithTheme(tui.ResolveTheme(tui.DefaultManifest(), cfg.Theme.Variant)))
	theme := renderer.Theme()
	driver := renderer.Driver()

	summaries, err := report.NewBuilder()
	if err != nil {
		return err
	}

	// The mirror is best-effort: a failure to open it degrades to an
	// unmirrored run, not a refusal to start.
	var mirror *sessionstore.Store
	if cfg.MirrorPath != "" {
		mirror, err = sessionstore.Open(cfg.MirrorPath)
		if err != nil {
			log.Printf("session mirror disabled: %v", err)
		} else {
			defer mirror.Close()
		}
	}

	if err := driver.Info(ctx, theme.Banner.Render("Vehicle Incident Intake")); err != nil {
		return err
	}

	for {
		switch nav.State() {
		case wizard.StateDescribe:
			if err := stepDescribe(ctx, coord, renderer, session); err != nil {
				return err
			}
		case wizard.StateGenerating:
			// Reached via retry; the failure path loops back to the error step.
			_ = coord.Regenerate(ctx)
		case wizard.StateAnswering:
			if err := renderer.RunForm(ctx, session); err != nil {
				return err
			}
			if err := nav.FinishAnswering(); err != nil {
				return err
			}
		case wizard.StateUploading:
			if err := renderer.RunUploads(ctx, nav, backend); err != nil {
				return err
			}
		case wizard.StateSubmitting:
			if err := stepSubmit(ctx, coord, renderer, summaries, nav); err != nil {
				return err
			}
		case wizard.StateError:
			if err := stepError(ctx, renderer, nav); err != nil {
				return err
			}
		case wizard.StateDone:
			if report := coord.Report(); report != "" {
				if err := driver.Info(ctx, report); err != nil {
					return err
				}
			}
			if err := driver.Info(ctx, theme.Success.Render("Your claim has been submitted. We'll be in touch shortly.")); err != nil {
				return err
			}
			if mirror != nil {
				if err := mirror.Delete(ctx, session.ID().String()); err != nil {
					log.Printf("clear session mirror: %v", err)
				}
			}
			return nil
		default:
			return fmt.Errorf("intake: unexpected state %s", nav.State())
		}

		if mirror != nil {
			if err := mirror.Save(ctx, sessionstore.Capture(nav)); err != nil {
				log.Printf("mirror session: %v", err)
			}
		}
	}
}

// stepDescribe collects the description, optionally with a supporting photo,
// and runs generation. An empty description re-prompts instead of failing.
func stepDescribe(ctx context.Context, coord *generate.Coordinator, renderer *tui.Renderer, session *wizard.Session) error {
	driver := renderer.Driver()
	theme := renderer.Theme()

	description, err := renderer.AskDescription(ctx, session.Description)
	if err != nil {
		return err
	}

	photo, err := askDescriptionPhoto(ctx, driver, theme)
	if err != nil {
		return err
	}

	err = coord.Generate(ctx, description, photo)
	if errors.Is(err, wizard.ErrEmptyDescription) {
		return driver.Info(ctx, theme.Error.Render("Please describe what happened before continuing."))
	}
	if err != nil {
		// The navigator holds the failure; the error step handles it.
		return nil
	}
	return nil
}

func askDescriptionPhoto(ctx context.Context, driver tui.PromptDriver, theme tui.Theme) (*photos.Photo, error) {
	attach, err := driver.Confirm(ctx, tui.ConfirmConfig{
		Message: "Attach a photo of the damage to help generate questions?",
		Default: false,
	})
	if err != nil || !attach {
		return nil, err
	}
	path, err := driver.Input(ctx, tui.InputConfig{Message: "Path to the image file"})
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if infoErr := driver.Info(ctx, theme.Error.Render(fmt.Sprintf("Could not read %s: %v", path, err))); infoErr != nil {
			return nil, infoErr
		}
		return nil, nil
	}
	return &photos.Photo{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// stepSubmit renders the claim summary for review, then submits.
func stepSubmit(ctx context.Context, coord *generate.Coordinator, renderer *tui.Renderer, summaries *report.Builder, nav *wizard.Navigator) error {
	driver := renderer.Driver()
	theme := renderer.Theme()

	summary, err := summaries.Render(nav.Session())
	if err != nil {
		return err
	}
	if err := driver.Info(ctx, summary); err != nil {
		return err
	}

	confirmed, err := driver.Confirm(ctx, tui.ConfirmConfig{
		Message: "Submit this claim?",
		Default: true,
	})
	if err != nil {
		return err
	}
	if !confirmed {
		if err := nav.BackToAnswering(); err != nil {
			return err
		}
		return driver.Info(ctx, theme.Help.Render("Walking through your answers again."))
	}

	// Failures land in the error step; nothing more to do here.
	_ = coord.Submit(ctx)
	return nil
}

// stepError shows the failure verbatim and offers retry or restart.
func stepError(ctx context.Context, renderer *tui.Renderer, nav *wizard.Navigator) error {
	driver := renderer.Driver()
	theme := renderer.Theme()

	if err := driver.Info(ctx, theme.Error.Render(nav.ErrorMessage())); err != nil {
		return err
	}
	retry, err := driver.Confirm(ctx, tui.ConfirmConfig{
		Message: "Try again?",
		Default: true,
	})
	if err != nil {
		return err
	}
	if retry {
		_, err := nav.Retry()
		return err
	}
	nav.Restart()
	return nil
}
