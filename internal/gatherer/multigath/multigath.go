package multigath

import (
	"github.com/programme-lv/p2d/api"
	"github.com/programme-lv/p2d/internal/convert"
)

// Multi forwards every event to each gatherer in order.
type Multi []convert.Gatherer

func New(gatherers ...convert.Gatherer) Multi {
	return Multi(gatherers)
}

func (m Multi) StartRun(problemsetDir string) {
	for _, g := range m {
		g.StartRun(problemsetDir)
	}
}

func (m Multi) StartProblem(problem string) {
	for _, g := range m {
		g.StartProblem(problem)
	}
}

func (m Multi) StartAspect(problem string, aspect string) {
	for _, g := range m {
		g.StartAspect(problem, aspect)
	}
}

func (m Multi) Diagnostic(problem string, aspect string, severity api.Severity, msg string) {
	for _, g := range m {
		g.Diagnostic(problem, aspect, severity, msg)
	}
}

func (m Multi) StartArchive(problem string) {
	for _, g := range m {
		g.StartArchive(problem)
	}
}

func (m Multi) FinishProblem(o api.Outcome) {
	for _, g := range m {
		g.FinishProblem(o)
	}
}

func (m Multi) FinishRun(summary api.Summary) {
	for _, g := range m {
		g.FinishRun(summary)
	}
}
