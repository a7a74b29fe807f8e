// Package report formats cleaning run summaries for humans. It offers a
// plain-text writer for terminals and a Markdown writer for
// documentation, both behind a common Writer interface so the CLI can
// fan a run summary out to several destinations.
package report
