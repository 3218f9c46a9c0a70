package convert

import (
	"log/slog"

	"github.com/programme-lv/p2d/internal/config"
)

// Env is the run wide state shared by every problem. It is read only once
// the run has started.
type Env struct {
	Checkers *config.Checkers
	Results  *config.Results
	Problems *config.Problems
	Misc     *config.Misc

	// Werror turns every warning into an error.
	Werror bool
	// OutDir receives the <shortname>.zip archives.
	OutDir string

	Log      *slog.Logger
	Gatherer Gatherer
}

func (e *Env) logger() *slog.Logger {
	if e.Log == nil {
		return slog.Default()
	}
	return e.Log
}

func (e *Env) gatherer() Gatherer {
	if e.Gatherer == nil {
		return nopGatherer{}
	}
	return e.Gatherer
}
