package api

import "time"

// MsgType is a message type for streaming conversion events
type MsgType string

// Streaming message type constants
const (
	StartRunMsg      MsgType = "run_start"
	StartProblemMsg  MsgType = "problem_start"
	StartAspectMsg   MsgType = "aspect_start"
	DiagnosticMsg    MsgType = "diagnostic"
	StartArchiveMsg  MsgType = "archive_start"
	FinishProblemMsg MsgType = "problem_finish"
	FinishRunMsg     MsgType = "run_finish"
)

// Diagnostic text size constraints for streaming
const (
	MaxMessageHeight = 10
	MaxMessageWidth  = 200
)

// Header is the common header for all streaming messages
type Header struct {
	RunUuid string  `json:"run_uuid"`
	MsgType MsgType `json:"msg_type"`
}

// StartRun message sent when a problem set conversion begins
type StartRun struct {
	Header
	ProblemsetDir string `json:"problemset_dir"`
	StartedTime   string `json:"started_time"`
}

// StartProblem message sent when a problem directory is loaded
type StartProblem struct {
	Header
	Problem string `json:"problem"`
}

// StartAspect message sent before an aspect is processed
type StartAspect struct {
	Header
	Problem string `json:"problem"`
	Aspect  string `json:"aspect"`
}

// Diagnostic message sent for every error or warning
type Diagnostic struct {
	Header
	Problem  string   `json:"problem"`
	Aspect   string   `json:"aspect"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// StartArchive message sent when the workspace is being zipped
type StartArchive struct {
	Header
	Problem string `json:"problem"`
}

// FinishProblem message sent when a problem is done
type FinishProblem struct {
	Header
	Problem    string  `json:"problem"`
	Errors     int     `json:"errors"`
	Warnings   int     `json:"warnings"`
	Archive    *string `json:"archive"`
	Skipped    bool    `json:"skipped"`
	SkipReason *string `json:"skip_reason"`
}

// FinishRun message sent when the whole problem set is done
type FinishRun struct {
	Header
	Errors       int      `json:"errors"`
	Warnings     int      `json:"warnings"`
	Failed       []string `json:"failed"`
	Skipped      []string `json:"skipped"`
	FinishedTime string   `json:"finished_time"`
}

// Helper function to create a header
func NewHeader(runUuid string, msgType MsgType) Header {
	return Header{
		RunUuid: runUuid,
		MsgType: msgType,
	}
}

// Helper functions to create specific streaming message types
func NewStartRun(runUuid, problemsetDir string) StartRun {
	return StartRun{
		Header:        NewHeader(runUuid, StartRunMsg),
		ProblemsetDir: problemsetDir,
		StartedTime:   time.Now().Format(time.RFC3339),
	}
}

func NewStartProblem(runUuid, problem string) StartProblem {
	return StartProblem{
		Header:  NewHeader(runUuid, StartProblemMsg),
		Problem: problem,
	}
}

func NewStartAspect(runUuid, problem, aspect string) StartAspect {
	return StartAspect{
		Header:  NewHeader(runUuid, StartAspectMsg),
		Problem: problem,
		Aspect:  aspect,
	}
}

func NewDiagnostic(runUuid, problem, aspect string, severity Severity, message string) Diagnostic {
	return Diagnostic{
		Header:   NewHeader(runUuid, DiagnosticMsg),
		Problem:  problem,
		Aspect:   aspect,
		Severity: severity,
		Message:  message,
	}
}

func NewStartArchive(runUuid, problem string) StartArchive {
	return StartArchive{
		Header:  NewHeader(runUuid, StartArchiveMsg),
		Problem: problem,
	}
}

func NewFinishProblem(runUuid string, o Outcome) FinishProblem {
	msg := FinishProblem{
		Header:   NewHeader(runUuid, FinishProblemMsg),
		Problem:  o.Problem,
		Errors:   o.Errors,
		Warnings: o.Warnings,
		Skipped:  o.Skipped,
	}
	if o.Archive != "" {
		archive := o.Archive
		msg.Archive = &archive
	}
	if o.SkipReason != "" {
		reason := o.SkipReason
		msg.SkipReason = &reason
	}
	return msg
}

func NewFinishRun(runUuid string, s Summary) FinishRun {
	skipped := []string{}
	for _, o := range s.Skipped() {
		skipped = append(skipped, o.Problem)
	}
	failed := s.Failed()
	if failed == nil {
		failed = []string{}
	}
	return FinishRun{
		Header:       NewHeader(runUuid, FinishRunMsg),
		Errors:       s.Errors,
		Warnings:     s.Warnings,
		Failed:       failed,
		Skipped:      skipped,
		FinishedTime: time.Now().Format(time.RFC3339),
	}
}
