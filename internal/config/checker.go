package config

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	keyMd5sum         = "md5sum"
	keyValidatorFlags = "validator_flags"
)

var (
	checkerNameRe = regexp.MustCompile(`\w`)
	checkerKeys   = mapset.NewSet(keyMd5sum, keyValidatorFlags)
)

// CheckerSpec is a partial checker definition. Nil fields are left as they
// are when the spec is applied.
type CheckerSpec struct {
	Fingerprint    *string
	ValidatorFlags *string
}

// Checker is a standard checker, recognised by the md5 fingerprint of its
// source file.
type Checker struct {
	Name string
	// Fingerprint is a lowercase 32 character hex md5 digest.
	Fingerprint    string
	ValidatorFlags *string
}

func NewChecker(name string, values Mapping) (*Checker, error) {
	if !checkerNameRe.MatchString(name) {
		return nil, errorf("Invalid Checker Name %q", name)
	}
	c := &Checker{Name: name}
	if err := c.Update(values); err != nil {
		return nil, err
	}
	return c, nil
}

// Update merges a decoded checker mapping into c. Fields are merged one at a
// time, so a failing field leaves the fields before it applied.
func (c *Checker) Update(values Mapping) error {
	if err := rejectUnknownKeys(values, checkerKeys, "checker "+c.Name); err != nil {
		return err
	}

	for _, e := range values {
		s, ok := e.Value.(string)
		var spec CheckerSpec
		switch e.Key {
		case keyMd5sum:
			if !ok {
				return errorf("Checker %s: md5sum must be a string but is %s.", c.Name, typeName(e.Value))
			}
			spec.Fingerprint = &s
		case keyValidatorFlags:
			if !ok {
				return errorf("Checker %s: validator flags must be a string but is %s.", c.Name, typeName(e.Value))
			}
			spec.ValidatorFlags = &s
		}
		if err := c.merge(spec); err != nil {
			return err
		}
	}

	return c.check()
}

// Apply merges a typed partial spec into c and re-checks the whole checker.
func (c *Checker) Apply(spec CheckerSpec) error {
	if err := c.merge(spec); err != nil {
		return err
	}
	return c.check()
}

func (c *Checker) merge(spec CheckerSpec) error {
	if spec.Fingerprint != nil {
		fp, ok := normalizeFingerprint(*spec.Fingerprint)
		if !ok {
			return errorf("Checker %s: md5sum is invalid.", c.Name)
		}
		c.Fingerprint = fp
	}
	if spec.ValidatorFlags != nil {
		flags := *spec.ValidatorFlags
		c.ValidatorFlags = &flags
	}
	return nil
}

func (c *Checker) check() error {
	if c.Fingerprint == "" {
		return errorf("Checker %s has no md5 sum", c.Name)
	}
	return nil
}

func normalizeFingerprint(s string) (string, bool) {
	if len(s) != md5.Size*2 {
		return "", false
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", false
	}
	return strings.ToLower(s), true
}

// Checkers is a set of checkers indexed by name and by fingerprint.
type Checkers struct {
	names        []string
	checkers     map[string]*Checker
	fingerprints map[string]string
}

func NewCheckers() *Checkers {
	return &Checkers{
		checkers:     make(map[string]*Checker),
		fingerprints: make(map[string]string),
	}
}

// Update merges checker definitions into the set. Known checkers are
// updated in place, new ones are appended. The fingerprint index is rebuilt
// afterwards and a collision fails the whole call; checkers already merged
// are not rolled back.
func (cs *Checkers) Update(data any) error {
	m, ok := data.(Mapping)
	if !ok {
		return errorf("Config file error: content must be a mapping, but is %s.", typeName(data))
	}

	for _, e := range m {
		name, ok := e.Key.(string)
		if !ok {
			return errorf("Config file error: checker names must be strings, but %v is %s.", e.Key, typeName(e.Key))
		}
		spec, ok := e.Value.(Mapping)
		if !ok {
			return errorf("Config file error: checker spec must be a mapping, but spec of checker %s is %s.",
				name, typeName(e.Value))
		}

		if c, exists := cs.checkers[name]; exists {
			if err := c.Update(spec); err != nil {
				return err
			}
			continue
		}
		c, err := NewChecker(name, spec)
		if err != nil {
			return err
		}
		cs.checkers[name] = c
		cs.names = append(cs.names, name)
	}

	return cs.reindex()
}

func (cs *Checkers) reindex() error {
	clear(cs.fingerprints)
	for _, name := range cs.names {
		fp := cs.checkers[name].Fingerprint
		if other, exists := cs.fingerprints[fp]; exists {
			return errorf("Checkers %s and %s both have md5sum %s.", other, name, fp)
		}
		cs.fingerprints[fp] = name
	}
	return nil
}

func (cs *Checkers) Get(name string) (*Checker, bool) {
	c, ok := cs.checkers[name]
	return c, ok
}

// Names returns checker names in insertion order.
func (cs *Checkers) Names() []string {
	return append([]string(nil), cs.names...)
}

func (cs *Checkers) Len() int {
	return len(cs.names)
}

// Lookup returns the name of the checker with the given fingerprint.
func (cs *Checkers) Lookup(fingerprint string) (string, bool) {
	name, ok := cs.fingerprints[strings.ToLower(fingerprint)]
	return name, ok
}

// Detect fingerprints the file at sourcePath and reports which standard
// checker it is. An unknown fingerprint is not an error.
func (cs *Checkers) Detect(sourcePath string) (string, bool, error) {
	fp, err := Fingerprint(sourcePath)
	if err != nil {
		return "", false, err
	}
	name, ok := cs.Lookup(fp)
	return name, ok, nil
}

// Fingerprint returns the hex md5 digest of the whole file at path.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
