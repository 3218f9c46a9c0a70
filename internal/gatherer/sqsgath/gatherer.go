package sqsgath

import (
	"context"

	"github.com/programme-lv/p2d/api"
)

type sqsResQueueGatherer struct {
	ctx       context.Context
	sqsClient sqsClient
	queueUrl  string
	runUuid   string
}

func (s *sqsResQueueGatherer) StartRun(problemsetDir string) {}

func (s *sqsResQueueGatherer) StartProblem(problem string) {}

func (s *sqsResQueueGatherer) StartAspect(problem string, aspect string) {}

func (s *sqsResQueueGatherer) Diagnostic(problem string, aspect string, severity api.Severity, msg string) {
}

func (s *sqsResQueueGatherer) StartArchive(problem string) {}

func (s *sqsResQueueGatherer) FinishProblem(o api.Outcome) {
	s.send(api.NewFinishProblem(s.runUuid, o))
}

func (s *sqsResQueueGatherer) FinishRun(summary api.Summary) {
	s.send(api.NewFinishRun(s.runUuid, summary))
}
