package convert

import (
	"path/filepath"
	"strings"

	"github.com/programme-lv/p2d/internal/config"
	"gopkg.in/yaml.v3"
)

const problemYAMLFileName = "problem.yaml"

type validatorKind int

const (
	defaultValidator validatorKind = iota
	checkerValidator
	interactorValidator
)

type problemYAML struct {
	Validation     config.ValidationMode `yaml:"validation"`
	ValidatorFlags *string               `yaml:"validator_flags,omitempty"`
}

// validatorAspect writes problem.yaml and, for custom validation, the
// output_validator directory.
type validatorAspect struct {
	p      *Problem
	kind   validatorKind
	source string
}

// newValidatorAspect decides which checker or interactor source validates
// the problem. An explicit validation mode in the problem config wins over
// the assets declared in problem.xml.
func newValidatorAspect(p *Problem) (*validatorAspect, error) {
	a := &validatorAspect{p: p}
	d := p.diag(validatorAspectName)
	meta := p.meta

	if mode, ok := p.cfg.Validation(); ok {
		switch {
		case mode == config.ValidationDefault:
			a.kind = defaultValidator
		case mode == config.ValidationCustom && meta.Checker != nil:
			a.kind, a.source = checkerValidator, meta.Checker.Source
		case mode == config.ValidationCustomInteractive && meta.IsInteractive():
			a.kind, a.source = interactorValidator, meta.Interactor.Source
		default:
			return nil, d.errorf("No checker/interactor found")
		}
		return a, nil
	}

	switch {
	case meta.IsInteractive():
		a.kind, a.source = interactorValidator, meta.Interactor.Source
	case meta.Checker != nil:
		a.kind, a.source = checkerValidator, meta.Checker.Source
	default:
		return nil, d.errorf("No checker/interactor found")
	}
	return a, nil
}

func (a *validatorAspect) Name() string { return validatorAspectName }

func (a *validatorAspect) Process(ws *Workspace, env *Env) error {
	d := a.p.diag(validatorAspectName)
	d.infof("Add output validator")

	var src string
	if a.source != "" {
		if !strings.HasSuffix(a.source, ".cpp") {
			return d.errorf("only support checker/interactor written with testlib.")
		}
		src = filepath.Join(a.p.dir, filepath.FromSlash(a.source))
	}

	switch a.kind {
	case defaultValidator:
		d.infof("  Use default checker")
		return a.writeProblemYAML(ws, d, problemYAML{
			Validation:     config.ValidationDefault,
			ValidatorFlags: a.p.cfg.ValidatorFlags(),
		})

	case interactorValidator:
		d.infof("  Use custom interactor")
		if err := a.writeProblemYAML(ws, d, problemYAML{Validation: config.ValidationCustomInteractive}); err != nil {
			return err
		}
		return a.copyValidator(ws, env, d, src, "interactor")

	default:
		name, ok, err := env.Checkers.Detect(src)
		if err != nil {
			return d.errorf("checker source not found: %v", err)
		}
		if ok {
			d.infof("  find std checker: std::%s", name)
			c, _ := env.Checkers.Get(name)
			return a.writeProblemYAML(ws, d, problemYAML{
				Validation:     config.ValidationDefault,
				ValidatorFlags: c.ValidatorFlags,
			})
		}

		d.infof("  Use custom checker")
		if err := a.writeProblemYAML(ws, d, problemYAML{Validation: config.ValidationCustom}); err != nil {
			return err
		}
		return a.copyValidator(ws, env, d, src, "checker")
	}
}

func (a *validatorAspect) writeProblemYAML(ws *Workspace, d *diag, data problemYAML) error {
	b, err := yaml.Marshal(data)
	if err != nil {
		return d.errorf("failed to encode %s: %v", problemYAMLFileName, err)
	}
	if err := ws.WriteFile(b, problemYAMLFileName); err != nil {
		return d.errorf("%v", err)
	}
	return nil
}

// copyValidator places the source as output_validator/<kind>/<kind>.cpp next
// to testlib.h.
func (a *validatorAspect) copyValidator(ws *Workspace, env *Env, d *diag, src, kind string) error {
	dir := []string{"output_validator", kind}
	if err := ws.EnsureDir(dir...); err != nil {
		return d.errorf("%v", err)
	}
	if err := ws.CopyFile(env.Misc.Testlib, append(dir, "testlib.h")...); err != nil {
		return d.errorf("failed to copy testlib: %v", err)
	}
	if err := ws.CopyFile(src, append(dir, kind+".cpp")...); err != nil {
		return d.errorf("%s source not found: %v", kind, err)
	}
	d.debugf("  copied %s to %s", a.source, filepath.Join(append(dir, kind+".cpp")...))
	return nil
}
