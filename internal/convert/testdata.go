package convert

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// MaxSamples is the exclusive upper bound of the sample count.
const MaxSamples = 100

const testsDirName = "tests"

// dataAspect copies tests/<n> and tests/<n><out> into data/sample or
// data/secret as NN.in and NN.ans.
type dataAspect struct {
	p       *Problem
	samples mapset.Set[int]
}

func newDataAspect(p *Problem) (*dataAspect, error) {
	n := p.cfg.Samples()
	if n >= MaxSamples {
		return nil, p.diag(dataAspectName).errorf("Too many samples")
	}
	samples := mapset.NewThreadUnsafeSet[int]()
	for i := 1; i <= n; i++ {
		samples.Add(i)
	}
	return &dataAspect{p: p, samples: samples}, nil
}

func (a *dataAspect) Name() string { return dataAspectName }

func (a *dataAspect) Process(ws *Workspace, env *Env) error {
	d := a.p.diag(dataAspectName)
	d.infof("Add tests")

	if err := ws.EnsureDir("data", "sample"); err != nil {
		return d.errorf("%v", err)
	}
	if err := ws.EnsureDir("data", "secret"); err != nil {
		return d.errorf("%v", err)
	}

	testsDir := filepath.Join(a.p.dir, testsDirName)
	entries, err := os.ReadDir(testsDir)
	if err != nil {
		return d.errorf("data not found: %v", err)
	}

	seen := mapset.NewThreadUnsafeSet[int]()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, env.Misc.OutSuffix) {
			continue
		}

		idx, err := strconv.Atoi(name)
		if err != nil || idx <= 0 {
			if err := d.warnf("Test %s is not numbered, skipped.", name); err != nil {
				return err
			}
			continue
		}
		if !seen.Add(idx) {
			return d.errorf("Test %s duplicates test %02d.", name, idx)
		}

		inputSrc := filepath.Join(testsDir, name)
		outputSrc := filepath.Join(testsDir, name+env.Misc.OutSuffix)
		for _, src := range []string{inputSrc, outputSrc} {
			if err := a.checkNewlines(d, src); err != nil {
				return err
			}
		}

		group := "secret"
		if a.samples.Contains(idx) {
			group = "sample"
		}
		base := fmt.Sprintf("%02d", idx)
		d.infof("  %s: %s.(in/ans)", group, base)

		if err := ws.CopyFile(inputSrc, "data", group, base+".in"); err != nil {
			return d.errorf("data not found: %v", err)
		}
		if err := ws.CopyFile(outputSrc, "data", group, base+".ans"); err != nil {
			return d.errorf("data not found: %v", err)
		}
	}
	return nil
}

func (a *dataAspect) checkNewlines(d *diag, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return d.errorf("data not found: %v", err)
	}
	rel, err := filepath.Rel(a.p.dir, path)
	if err != nil {
		rel = path
	}
	if bytes.IndexByte(data, '\r') != -1 {
		if err := d.warnf("The file %s contains non-standard line breaks.", rel); err != nil {
			return err
		}
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		if err := d.warnf("The file %s does not end with '\\n'.", rel); err != nil {
			return err
		}
	}
	return nil
}
