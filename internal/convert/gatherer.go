package convert

import "github.com/programme-lv/p2d/api"

// Gatherer receives conversion events. Calls for different problems may
// arrive concurrently when the runner converts several problems at once.
type Gatherer interface {
	StartRun(problemsetDir string)

	StartProblem(problem string)
	StartAspect(problem string, aspect string)
	Diagnostic(problem string, aspect string, severity api.Severity, msg string)
	StartArchive(problem string)
	FinishProblem(outcome api.Outcome)

	FinishRun(summary api.Summary)
}

type nopGatherer struct{}

func (nopGatherer) StartRun(string)                                 {}
func (nopGatherer) StartProblem(string)                             {}
func (nopGatherer) StartAspect(string, string)                      {}
func (nopGatherer) Diagnostic(string, string, api.Severity, string) {}
func (nopGatherer) StartArchive(string)                             {}
func (nopGatherer) FinishProblem(api.Outcome)                       {}
func (nopGatherer) FinishRun(api.Summary)                           {}
