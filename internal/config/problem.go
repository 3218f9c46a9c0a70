package config

import (
	"regexp"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	keyProbID     = "probid"
	keyColor      = "color"
	keySamples    = "samples"
	keyValidation = "validation"
)

var (
	problemNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*[A-Za-z0-9]$`)
	colorRe       = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	problemKeys   = mapset.NewSet(keyProbID, keyColor, keySamples, keyValidation, keyValidatorFlags)
)

// ValidationMode selects how submissions to a problem are judged.
type ValidationMode string

const (
	ValidationDefault           ValidationMode = "default"
	ValidationCustom            ValidationMode = "custom"
	ValidationCustomInteractive ValidationMode = "custom interactive"
)

// ParseValidationMode accepts the DOMjudge spelling of a validation mode and
// "custom-interactive" as an alias.
func ParseValidationMode(s string) (ValidationMode, bool) {
	switch s {
	case string(ValidationDefault):
		return ValidationDefault, true
	case string(ValidationCustom):
		return ValidationCustom, true
	case string(ValidationCustomInteractive), "custom-interactive":
		return ValidationCustomInteractive, true
	}
	return "", false
}

// ProblemSpec is a partial problem definition. Nil fields are left as they
// are when the spec is applied.
type ProblemSpec struct {
	ProblemID      *string
	Color          *string
	Samples        *int
	Validation     *ValidationMode
	ValidatorFlags *string
}

// Problem holds per-problem metadata that overrides the defaults.
type Problem struct {
	Name string
	spec ProblemSpec
}

// DefaultProblem returns the record used when a problem has no config.
func DefaultProblem() *Problem {
	probID, color, samples := "PROB01", "#000000", 1
	p := &Problem{Name: "DEFAULT"}
	if err := p.Apply(ProblemSpec{ProblemID: &probID, Color: &color, Samples: &samples}); err != nil {
		panic(err)
	}
	return p
}

func NewProblem(name string, values Mapping) (*Problem, error) {
	if !problemNameRe.MatchString(name) {
		return nil, errorf("Invalid Problem Name %q", name)
	}
	p := &Problem{Name: name}
	if err := p.Update(values); err != nil {
		return nil, err
	}
	return p, nil
}

// Update merges a decoded problem mapping into p, one field at a time, and
// then checks that all mandatory fields are present.
func (p *Problem) Update(values Mapping) error {
	if err := rejectUnknownKeys(values, problemKeys, "problem "+p.Name); err != nil {
		return err
	}

	for _, e := range values {
		spec, err := p.fieldSpec(e.Key.(string), e.Value)
		if err != nil {
			return err
		}
		if err := p.merge(spec); err != nil {
			return err
		}
	}

	return p.check()
}

func (p *Problem) fieldSpec(key string, value any) (ProblemSpec, error) {
	var spec ProblemSpec
	switch key {
	case keyProbID:
		s, ok := value.(string)
		if !ok {
			return spec, errorf("problem %s: problem code must be a string but is %s.", p.Name, typeName(value))
		}
		spec.ProblemID = &s
	case keyColor:
		s, ok := value.(string)
		if !ok {
			return spec, errorf("problem %s: problem color must be an RGB color but is %s.", p.Name, typeName(value))
		}
		spec.Color = &s
	case keySamples:
		n, ok := asInt(value)
		if !ok {
			return spec, errorf("problem %s: problem samples must be an integer but is %s.", p.Name, typeName(value))
		}
		spec.Samples = &n
	case keyValidation:
		s, ok := value.(string)
		if !ok {
			return spec, errorf("problem %s: problem validation must be a string but is %s.", p.Name, typeName(value))
		}
		mode, ok := ParseValidationMode(s)
		if !ok {
			return spec, errorf("problem %s: unknown validation %s.", p.Name, s)
		}
		spec.Validation = &mode
	case keyValidatorFlags:
		s, ok := value.(string)
		if !ok {
			return spec, errorf("problem %s: problem validator flags must be a string but is %s.", p.Name, typeName(value))
		}
		spec.ValidatorFlags = &s
	}
	return spec, nil
}

// Apply merges a typed partial spec into p and re-checks the whole problem.
func (p *Problem) Apply(spec ProblemSpec) error {
	if err := p.merge(spec); err != nil {
		return err
	}
	return p.check()
}

func (p *Problem) merge(spec ProblemSpec) error {
	if spec.ProblemID != nil {
		id := *spec.ProblemID
		p.spec.ProblemID = &id
	}
	if spec.Color != nil {
		if !colorRe.MatchString(*spec.Color) {
			return errorf("problem %s: problem color must be an RGB color but is %q.", p.Name, *spec.Color)
		}
		color := *spec.Color
		p.spec.Color = &color
	}
	if spec.Samples != nil {
		if *spec.Samples < 0 {
			return errorf("problem %s: problem samples must not be negative but is %d.", p.Name, *spec.Samples)
		}
		samples := *spec.Samples
		p.spec.Samples = &samples
	}
	if spec.Validation != nil {
		if _, ok := ParseValidationMode(string(*spec.Validation)); !ok {
			return errorf("problem %s: unknown validation %s.", p.Name, *spec.Validation)
		}
		mode := *spec.Validation
		p.spec.Validation = &mode
	}
	if spec.ValidatorFlags != nil {
		flags := *spec.ValidatorFlags
		p.spec.ValidatorFlags = &flags
	}
	return nil
}

func (p *Problem) check() error {
	if p.spec.ProblemID == nil {
		return errorf("problem %s has no probid", p.Name)
	}
	if p.spec.Color == nil {
		return errorf("problem %s has no color", p.Name)
	}
	if p.spec.Samples == nil {
		return errorf("problem %s has no samples", p.Name)
	}
	return nil
}

func (p *Problem) ProblemID() string { return *p.spec.ProblemID }

func (p *Problem) Color() string { return *p.spec.Color }

func (p *Problem) Samples() int { return *p.spec.Samples }

// Validation returns the configured validation mode, if any.
func (p *Problem) Validation() (ValidationMode, bool) {
	if p.spec.Validation == nil {
		return "", false
	}
	return *p.spec.Validation, true
}

// ValidatorFlags returns nil when the problem sets no flags.
func (p *Problem) ValidatorFlags() *string {
	return p.spec.ValidatorFlags
}

// Problems is a set of problem configs keyed by problem short name.
type Problems struct {
	names    []string
	problems map[string]*Problem
}

func NewProblems() *Problems {
	return &Problems{problems: make(map[string]*Problem)}
}

// Update merges problem definitions into the set.
func (ps *Problems) Update(data any) error {
	m, ok := data.(Mapping)
	if !ok {
		return errorf("Config file error: content must be a mapping, but is %s.", typeName(data))
	}

	for _, e := range m {
		name, ok := e.Key.(string)
		if !ok {
			return errorf("Config file error: problem names must be strings, but %v is %s.", e.Key, typeName(e.Key))
		}
		spec, ok := e.Value.(Mapping)
		if !ok {
			return errorf("Config file error: problem spec must be a mapping, but spec of problem %s is %s.",
				name, typeName(e.Value))
		}

		if p, exists := ps.problems[name]; exists {
			if err := p.Update(spec); err != nil {
				return err
			}
			continue
		}
		p, err := NewProblem(name, spec)
		if err != nil {
			return err
		}
		ps.problems[name] = p
		ps.names = append(ps.names, name)
	}
	return nil
}

func (ps *Problems) Get(name string) (*Problem, bool) {
	p, ok := ps.problems[name]
	return p, ok
}

func (ps *Problems) Names() []string {
	return append([]string(nil), ps.names...)
}

func (ps *Problems) Len() int {
	return len(ps.names)
}
