package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnknownType is returned for a question type the renderer cannot
	// dispatch on. Ingestion validation makes this unreachable for decoded
	// payloads.
	ErrUnknownType = errors.New("tui: unknown question type")
)
