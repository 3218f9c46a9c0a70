package api

// Severity of a diagnostic raised while converting a problem.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Report counts the diagnostics of one problem or a whole run.
type Report struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

func (r *Report) Add(o Report) {
	r.Errors += o.Errors
	r.Warnings += o.Warnings
}

// Outcome is the result of converting one problem directory.
type Outcome struct {
	Problem string `json:"problem"`
	Report
	// Archive is the path of the written zip, empty when none was made.
	Archive string `json:"archive,omitempty"`
	// Skipped marks a directory that could not be set up for conversion.
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skip_reason,omitempty"`
}

func (o Outcome) Failed() bool {
	return !o.Skipped && o.Errors > 0
}

// Summary aggregates the outcomes of a run in directory listing order.
type Summary struct {
	Outcomes []Outcome `json:"outcomes"`
	Report
}

func NewSummary(outcomes []Outcome) Summary {
	s := Summary{Outcomes: outcomes}
	for _, o := range outcomes {
		s.Add(o.Report)
	}
	return s
}

// Failed lists the problems that reported errors.
func (s Summary) Failed() []string {
	var res []string
	for _, o := range s.Outcomes {
		if o.Failed() {
			res = append(res, o.Problem)
		}
	}
	return res
}

func (s Summary) Skipped() []Outcome {
	var res []Outcome
	for _, o := range s.Outcomes {
		if o.Skipped {
			res = append(res, o)
		}
	}
	return res
}

// ExitCode is 1 when any problem reported an error, 0 otherwise.
func (s Summary) ExitCode() int {
	if s.Errors > 0 {
		return 1
	}
	return 0
}
