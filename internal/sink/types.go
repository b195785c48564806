// Package sink forwards interaction actions to external consumer processes.
// A sink is a long-running executable that receives newline-delimited JSON
// events on stdin, one per mode transition, for the lifetime of the pipeline.
package sink

import (
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// Manifest describes a sink's metadata, read from its sink.json file.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Modes filters which interaction modes the sink receives.
	// Empty means all modes.
	Modes []string `json:"modes,omitempty"`
}

// Event is one line of the stream written to a sink's stdin.
type Event struct {
	At     time.Time      `json:"at"`
	Action gesture.Action `json:"action"`
}

// Sink represents a discovered sink with its manifest and location.
type Sink struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Wants reports whether the sink's mode filter accepts the given mode.
func (s *Sink) Wants(mode gesture.Mode) bool {
	if len(s.Manifest.Modes) == 0 {
		return true
	}
	for _, m := range s.Manifest.Modes {
		if gesture.Mode(m) == mode {
			return true
		}
	}
	return false
}
