package convert

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/programme-lv/p2d/api"
	"github.com/programme-lv/p2d/internal/archive"
	"github.com/programme-lv/p2d/internal/config"
	"github.com/programme-lv/p2d/internal/polygon"
)

const problemAspectName = "problem"

// defaultTimeLimit applies when a package has no problem.xml.
const defaultTimeLimit = time.Second

// Problem converts one Polygon package directory. It owns a temporary
// workspace that Close removes.
type Problem struct {
	dir       string
	shortName string
	env       *Env

	ws   *Workspace
	cfg  *config.Problem
	meta *polygon.Problem

	aspects []Aspect
	report  api.Report

	// initFailed is set when setup reported a processing error.
	initFailed bool
	skipReason string
}

// Open prepares the conversion of the package in dir. Failures are recorded
// on the returned Problem and surface in the Outcome of Run.
func Open(dir string, env *Env) *Problem {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	p := &Problem{
		dir:       dir,
		shortName: filepath.Base(dir),
		env:       env,
	}
	env.gatherer().StartProblem(p.shortName)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		_ = p.diag(problemAspectName).errorf("Problem directory '%s' not found", dir)
		p.initFailed = true
		return p
	}

	ws, err := NewWorkspace(p.shortName)
	if err != nil {
		p.skipReason = err.Error()
		return p
	}
	p.ws = ws

	if err := p.init(); err != nil {
		var pe *ProcessingError
		if errors.As(err, &pe) {
			p.initFailed = true
		} else {
			p.skipReason = err.Error()
		}
	}
	return p
}

func (p *Problem) init() error {
	if err := p.loadConfig(); err != nil {
		return err
	}

	validator, err := newValidatorAspect(p)
	if err != nil {
		return err
	}
	data, err := newDataAspect(p)
	if err != nil {
		return err
	}
	p.aspects = []Aspect{
		&configAspect{p: p},
		validator,
		data,
		&submissionsAspect{p: p},
	}
	return nil
}

// loadConfig reads problem.xml and resolves the problem config, falling back
// to the DEFAULT config with a warning.
func (p *Problem) loadConfig() error {
	d := p.diag(configAspectName)
	d.debugf("Parse '%s'", polygon.FileName)

	path := filepath.Join(p.dir, polygon.FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := d.warnf("Can not find %s of %s, use default.", polygon.FileName, p.shortName); err != nil {
			return err
		}
		p.cfg = config.DefaultProblem()
		p.meta = &polygon.Problem{
			ShortName: p.shortName,
			Name:      p.shortName,
			TimeLimit: defaultTimeLimit,
		}
		return nil
	}

	meta, err := polygon.Read(path)
	if err != nil {
		return err
	}
	p.meta = meta

	cfg, ok := p.env.Problems.Get(p.shortName)
	if !ok {
		if err := d.warnf("Can not find config of %s, use default.", p.shortName); err != nil {
			return err
		}
		cfg = config.DefaultProblem()
	}
	p.cfg = cfg

	d.debugf("Problem Name: %s", meta.Name)
	d.debugf("Time Limit: %s", formatSeconds(meta.TimeLimit))
	if meta.MemoryLimit > 0 {
		d.debugf("Memory Limit: %d MiB", meta.MemoryLimit>>20)
	}
	return nil
}

func (p *Problem) diag(aspect string) *diag {
	return &diag{
		problem: p.shortName,
		aspect:  aspect,
		werror:  p.env.Werror,
		report:  &p.report,
		log:     p.env.logger().With("problem", p.shortName, "aspect", aspect),
		gath:    p.env.gatherer(),
	}
}

func (p *Problem) ShortName() string {
	return p.shortName
}

// Config returns the resolved problem config, nil before it is resolved.
func (p *Problem) Config() *config.Problem {
	return p.cfg
}

// Workspace returns the problem's workspace, nil if none could be created.
func (p *Problem) Workspace() *Workspace {
	return p.ws
}

// Run processes the aspects in order and archives the workspace when all of
// them succeed. The first processing error stops the chain.
func (p *Problem) Run() api.Outcome {
	if p.skipReason != "" {
		return api.Outcome{Problem: p.shortName, Skipped: true, SkipReason: p.skipReason}
	}
	if p.initFailed {
		return p.outcome("")
	}

	gath := p.env.gatherer()
	for _, a := range p.aspects {
		gath.StartAspect(p.shortName, a.Name())
		if err := a.Process(p.ws, p.env); err != nil {
			var pe *ProcessingError
			if !errors.As(err, &pe) {
				_ = p.diag(a.Name()).errorf("%v", err)
			}
			return p.outcome("")
		}
	}

	gath.StartArchive(p.shortName)
	dst := filepath.Join(p.env.OutDir, p.shortName+".zip")
	if err := archive.ZipDir(p.ws.Root(), dst); err != nil {
		_ = p.diag(problemAspectName).errorf("%v", err)
		return p.outcome("")
	}
	return p.outcome(dst)
}

func (p *Problem) outcome(zipPath string) api.Outcome {
	return api.Outcome{Problem: p.shortName, Report: p.report, Archive: zipPath}
}

// Close removes the workspace.
func (p *Problem) Close() error {
	if p.ws == nil {
		return nil
	}
	return p.ws.Remove()
}
