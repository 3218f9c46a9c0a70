package natsgath

import (
	"github.com/programme-lv/p2d/api"
)

type natsGatherer struct {
	pub     publisher
	subject string
	runUuid string
}

func (s *natsGatherer) StartRun(problemsetDir string) {
	s.send(api.NewStartRun(s.runUuid, problemsetDir))
}

func (s *natsGatherer) StartProblem(problem string) {
	s.send(api.NewStartProblem(s.runUuid, problem))
}

func (s *natsGatherer) StartAspect(problem string, aspect string) {
	s.send(api.NewStartAspect(s.runUuid, problem, aspect))
}

func (s *natsGatherer) Diagnostic(problem string, aspect string, severity api.Severity, msg string) {
	msg = trimStrToRect(msg, api.MaxMessageHeight, api.MaxMessageWidth)
	s.send(api.NewDiagnostic(s.runUuid, problem, aspect, severity, msg))
}

func (s *natsGatherer) StartArchive(problem string) {
	s.send(api.NewStartArchive(s.runUuid, problem))
}

func (s *natsGatherer) FinishProblem(o api.Outcome) {
	s.send(api.NewFinishProblem(s.runUuid, o))
}

func (s *natsGatherer) FinishRun(summary api.Summary) {
	s.send(api.NewFinishRun(s.runUuid, summary))
}
