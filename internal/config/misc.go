package config

import (
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	keyTestlib = "testlib"
	keyDesc    = "desc"
	keyOut     = "out"
)

var miscKeys = mapset.NewSet(keyTestlib, keyDesc, keyOut)

// Misc holds process wide settings.
type Misc struct {
	// Testlib is the resolved path of the testlib.h header.
	Testlib string
	// DescSuffix marks submission description files.
	DescSuffix string
	// OutSuffix marks expected output files.
	OutSuffix string

	testlibName string
	searchDirs  []string
}

// NewMisc builds the settings from values. The testlib header is looked up
// in searchDirs, first match wins.
func NewMisc(values Mapping, searchDirs []string) (*Misc, error) {
	m := &Misc{searchDirs: searchDirs}
	if err := m.Update(values); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Misc) Update(values Mapping) error {
	if err := rejectUnknownKeys(values, miscKeys, "misc config"); err != nil {
		return err
	}

	for _, e := range values {
		s, ok := e.Value.(string)
		switch e.Key {
		case keyTestlib:
			if !ok {
				return errorf("testlib path must be a string but is %s", typeName(e.Value))
			}
			m.testlibName = s
		case keyDesc:
			if !ok {
				return errorf("desc extension must be a string but is %s", typeName(e.Value))
			}
			m.DescSuffix = s
		case keyOut:
			if !ok {
				return errorf("output extension must be a string but is %s", typeName(e.Value))
			}
			m.OutSuffix = s
		}
	}

	return m.check()
}

func (m *Misc) check() error {
	m.Testlib = ""
	for _, candidate := range ResourceCandidates(m.testlibName, m.searchDirs) {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			m.Testlib = candidate
			break
		}
	}
	if m.Testlib == "" {
		return errorf("testlib has not found.")
	}
	if m.DescSuffix == "" {
		return errorf("desc extension has not found.")
	}
	if m.OutSuffix == "" {
		return errorf("output extension has not found.")
	}
	return nil
}

// ResourceCandidates lists the paths probed for a resource file, in order.
// An absolute name is its own only candidate.
func ResourceCandidates(name string, dirs []string) []string {
	if name == "" {
		return nil
	}
	if filepath.IsAbs(name) {
		return []string{name}
	}
	res := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		res = append(res, filepath.Join(dir, name))
	}
	return res
}

// ResourceDirs returns the default resource search path: the res directory
// next to the executable, the working directory and then each of extra.
func ResourceDirs(extra ...string) []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "res"))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	return append(dirs, extra...)
}
