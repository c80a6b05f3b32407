// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StaleReason explains why a derived artifact needs to be regenerated.
type StaleReason string

const (
	// StaleNone means the derived artifact is at least as new as its source.
	StaleNone StaleReason = ""
	// StaleMissing means the derived artifact does not exist.
	StaleMissing StaleReason = "missing"
	// StaleUnreadable means the derived artifact's timestamp could not be read.
	StaleUnreadable StaleReason = "unreadable"
	// StaleNewer means the source was modified after the derived artifact.
	StaleNewer StaleReason = "newer"
)

// ConversionRecord is one converter invocation as stored in the journal.
type ConversionRecord struct {
	// ID is assigned by the journal on insert.
	ID int64 `json:"id" yaml:"id"`

	// Source is the absolute path of the source asset.
	Source string `json:"source" yaml:"source"`

	// Output is the absolute path of the derived artifact.
	Output string `json:"output" yaml:"output"`

	// Reason is why the conversion was triggered.
	Reason StaleReason `json:"reason" yaml:"reason"`

	// StartedAt is when the converter process was launched.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Duration is the wall time until the converter exited.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// ExitCode is the converter's exit status. It is recorded, never acted on.
	ExitCode int `json:"exit_code" yaml:"exit_code"`
}
