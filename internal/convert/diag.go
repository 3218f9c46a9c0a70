package convert

import (
	"fmt"
	"log/slog"

	"github.com/programme-lv/p2d/api"
)

// ProcessingError stops the aspect chain of one problem. It never aborts
// the run.
type ProcessingError struct {
	Aspect string
	Msg    string
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("in %s: %s", e.Aspect, e.Msg)
}

// diag reports the diagnostics of one aspect and counts them into the
// problem's report.
type diag struct {
	problem string
	aspect  string
	werror  bool
	report  *api.Report
	log     *slog.Logger
	gath    Gatherer
}

// errorf counts and reports an error and returns the ProcessingError the
// caller must return.
func (d *diag) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	d.report.Errors++
	d.log.Error(msg)
	d.gath.Diagnostic(d.problem, d.aspect, api.SeverityError, msg)
	return &ProcessingError{Aspect: d.aspect, Msg: msg}
}

// warnf counts and reports a warning. With werror it behaves as errorf and
// the returned error must be propagated.
func (d *diag) warnf(format string, args ...any) error {
	if d.werror {
		return d.errorf(format, args...)
	}
	msg := fmt.Sprintf(format, args...)
	d.report.Warnings++
	d.log.Warn(msg)
	d.gath.Diagnostic(d.problem, d.aspect, api.SeverityWarning, msg)
	return nil
}

func (d *diag) infof(format string, args ...any) {
	d.log.Info(fmt.Sprintf(format, args...))
}

func (d *diag) debugf(format string, args ...any) {
	d.log.Debug(fmt.Sprintf(format, args...))
}
