// Package migration implements the offline migration and verification
// toolkit (C7, spec.md §4.7): one-shot batch loaders that move data between
// the file tier and the HOT/WARM/COOL tiers, a cross-tier verifier, and a
// reverse Export path. Every operation shares the header/progress/footer
// reporting convention modeled on NimbleMarkets-dbn-go/cmd/dbn-go-hist's
// plain progress printing, written to a caller-supplied io.Writer, plus
// github.com/dustin/go-humanize for count formatting.
package migration

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// StepReport accumulates the outcome of one migration or verification step
// for the closing footer (spec.md §4.7 "all toolkit operations print a
// header, per-step progress, and a footer summary").
type StepReport struct {
	Name     string
	RunID    string // correlates this invocation's report with its log lines
	Success  int
	Failure  int
	Skipped  int
	Start    time.Time
	Elapsed  time.Duration
	Examples []string // first-10 inconsistency/failure examples, for Verify
}

const maxExamples = 10

// NewStepReport starts a report with Start stamped to the caller-supplied
// time (every step in this package passes time.Now()) and
// a fresh run-correlation ID, the same job/request-ID convention
// aristath-sentinel attaches via google/uuid elsewhere in its codebase.
func NewStepReport(name string, start time.Time) *StepReport {
	return &StepReport{Name: name, RunID: uuid.New().String(), Start: start}
}

// AddExample records a failure/inconsistency example, capping at
// maxExamples (spec.md §4.7 "report ... first-10 examples").
func (r *StepReport) AddExample(s string) {
	if len(r.Examples) < maxExamples {
		r.Examples = append(r.Examples, s)
	}
}

// Finish stamps Elapsed from the caller-supplied end time.
func (r *StepReport) Finish(end time.Time) {
	r.Elapsed = end.Sub(r.Start)
}

// Throughput returns successful records per second, or 0 if Elapsed is zero.
func (r *StepReport) Throughput() float64 {
	secs := r.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.Success) / secs
}

// PrintHeader writes the toolkit's standard step banner.
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "== %s ==\n", title)
}

// PrintProgress writes a single progress line every batch (called by each
// migration step's batch loop, not buffered — operators tail this live).
func PrintProgress(w io.Writer, step string, processed, total int) {
	if total > 0 {
		fmt.Fprintf(w, "  %s: %s/%s\n", step, humanize.Comma(int64(processed)), humanize.Comma(int64(total)))
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", step, humanize.Comma(int64(processed)))
}

// PrintFooter writes the closing summary line for one StepReport.
func PrintFooter(w io.Writer, r *StepReport) {
	fmt.Fprintf(w, "-- %s [%s]: %s ok, %s failed, %s skipped in %s (%.1f/s) --\n",
		r.Name,
		r.RunID,
		humanize.Comma(int64(r.Success)),
		humanize.Comma(int64(r.Failure)),
		humanize.Comma(int64(r.Skipped)),
		r.Elapsed.Round(time.Millisecond),
		r.Throughput(),
	)
	for _, ex := range r.Examples {
		fmt.Fprintf(w, "     example: %s\n", ex)
	}
}
