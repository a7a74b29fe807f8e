package config

import "errors"

// Configuration validation errors returned by Config.Validate.
//
// Design decision: package-level sentinel errors rather than error
// values created inside Validate, so callers can dispatch with
// errors.Is while the messages stay human-readable. Threshold and area
// violations reuse the clean package's sentinels; only concerns the
// core does not know about get their own here.
var (
	// ErrNoInput is returned when no map file is specified.
	ErrNoInput = errors.New("no input map specified: provide a PGM or PNG map path")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are requested. Only one output format can be used at a
	// time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
