package termgath

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/p2d/api"
)

// TerminalGatherer prints conversion progress and the run summary.
type TerminalGatherer struct {
	mu        sync.Mutex
	w         io.Writer
	StartedAt time.Time

	ok      *color.Color
	warn    *color.Color
	fail    *color.Color
	skipped *color.Color
}

func New(w io.Writer) *TerminalGatherer {
	return &TerminalGatherer{
		w:         w,
		StartedAt: time.Now(),
		ok:        color.New(color.FgGreen),
		warn:      color.New(color.FgYellow),
		fail:      color.New(color.FgRed, color.Bold),
		skipped:   color.New(color.Faint),
	}
}

func (t *TerminalGatherer) printf(c *color.Color, format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c == nil {
		fmt.Fprintf(t.w, format, args...)
		return
	}
	c.Fprintf(t.w, format, args...)
}

func (t *TerminalGatherer) StartRun(problemsetDir string) {
	t.StartedAt = time.Now()
}

func (t *TerminalGatherer) StartProblem(problem string) {
	t.printf(nil, "Loading problem %s\n", problem)
}

// StartAspect and StartArchive name the problem because problems converted
// in parallel interleave their lines.
func (t *TerminalGatherer) StartAspect(problem string, aspect string) {
	t.printf(nil, "%s: Add %s\n", problem, aspect)
}

// Diagnostic is a no-op; diagnostics reach the terminal through the logger.
func (t *TerminalGatherer) Diagnostic(problem string, aspect string, severity api.Severity, msg string) {
}

func (t *TerminalGatherer) StartArchive(problem string) {
	t.printf(nil, "%s: Make archive\n", problem)
}

func (t *TerminalGatherer) FinishProblem(o api.Outcome) {
	if o.Skipped {
		t.printf(t.skipped, "%s skipped: %s\n", o.Problem, o.SkipReason)
		return
	}

	c := t.ok
	switch {
	case o.Errors > 0:
		c = t.fail
	case o.Warnings > 0:
		c = t.warn
	}
	t.printf(c, "%s finished: %d error%s, %d warning%s\n",
		o.Problem, o.Errors, plural(o.Errors), o.Warnings, plural(o.Warnings))
}

func (t *TerminalGatherer) FinishRun(s api.Summary) {
	if failed := s.Failed(); len(failed) > 0 {
		t.printf(nil, "These problem got errors:\n")
		for _, name := range failed {
			t.printf(t.fail, "  %s\n", name)
		}
	}
	if skipped := s.Skipped(); len(skipped) > 0 {
		t.printf(nil, "These problem were skipped:\n")
		for _, o := range skipped {
			t.printf(t.skipped, "  %s\n", o.Problem)
		}
	}
	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	t.printf(nil, "== %d problem%s converted in %s ==\n", len(s.Outcomes), plural(len(s.Outcomes)), dur)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
