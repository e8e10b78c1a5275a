// Package pipeline implements the pipeline stages. Each stage is a pure
// transformation over the previous stage's checkpoint: collect, normalize,
// verify, enrich, images, features, aggregate, export. Stages never abort
// on a single record; per-record failures are collected into a StageResult.
package pipeline

import "fmt"

// StageResult tracks counts and per-record errors for one stage run.
type StageResult struct {
	In      int
	Out     int
	Skipped int
	Failed  int
	Errors  []string
}

// AddErrorf records a formatted per-record error and counts the failure.
func (r *StageResult) AddErrorf(format string, args ...any) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the stage run.
func (r *StageResult) Summary() string {
	return fmt.Sprintf("in=%d out=%d skipped=%d failed=%d",
		r.In, r.Out, r.Skipped, r.Failed)
}
