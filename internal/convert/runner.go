package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/programme-lv/p2d/api"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

// Runner converts every problem directory of a problem set.
type Runner struct {
	env  *Env
	jobs int
}

// NewRunner returns a runner converting up to jobs problems at once. Values
// below 1 mean sequential conversion.
func NewRunner(env *Env, jobs int) *Runner {
	if jobs < 1 {
		jobs = 1
	}
	return &Runner{env: env, jobs: jobs}
}

// Run converts the subdirectories of problemsetDir in listing order. A
// cancelled ctx stops the run before the next problem starts; problems that
// already started are finished. Outcomes keep the listing order.
func (r *Runner) Run(ctx context.Context, problemsetDir string) (api.Summary, error) {
	dirs, err := problemDirs(problemsetDir)
	if err != nil {
		return api.Summary{}, err
	}

	gath := r.env.gatherer()
	gath.StartRun(problemsetDir)

	var (
		finished  = xsync.NewCounter()
		errCount  = xsync.NewCounter()
		warnCount = xsync.NewCounter()
		outcomes  = make([]api.Outcome, len(dirs))
		done      = make([]bool, len(dirs))
	)

	g := new(errgroup.Group)
	g.SetLimit(r.jobs)
	for i, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			o := r.convert(dir)
			outcomes[i], done[i] = o, true
			finished.Inc()
			errCount.Add(int64(o.Errors))
			warnCount.Add(int64(o.Warnings))
			r.env.logger().Debug("progress", "problem", o.Problem,
				"finished", finished.Value(), "total", len(dirs),
				"errors", errCount.Value(), "warnings", warnCount.Value())
			return nil
		})
	}
	_ = g.Wait()

	var finishedOutcomes []api.Outcome
	for i, o := range outcomes {
		if done[i] {
			finishedOutcomes = append(finishedOutcomes, o)
		}
	}
	summary := api.NewSummary(finishedOutcomes)
	gath.FinishRun(summary)

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("conversion interrupted: %w", err)
	}
	return summary, nil
}

func (r *Runner) convert(dir string) api.Outcome {
	p := Open(dir, r.env)
	defer func() {
		if err := p.Close(); err != nil {
			r.env.logger().Warn("failed to remove workspace", "problem", p.ShortName(), "error", err)
		}
	}()

	o := p.Run()
	r.env.gatherer().FinishProblem(o)
	return o
}

// problemDirs lists the subdirectories of dir, following symlinks.
func problemDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list problem set %s: %w", dir, err)
	}
	var dirs []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, path)
	}
	return dirs, nil
}
