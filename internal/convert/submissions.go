package convert

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/p2d/internal/config"
)

const solutionsDirName = "solutions"

const (
	descFileNameKey = "File name"
	descTagKey      = "Tag"
)

// submissionsAspect copies jury solutions into submissions/<result>/ as
// described by their description files.
type submissionsAspect struct {
	p *Problem
}

func (a *submissionsAspect) Name() string { return submissionsAspectName }

func (a *submissionsAspect) Process(ws *Workspace, env *Env) error {
	d := a.p.diag(submissionsAspectName)
	d.infof("Add jury solutions")

	for _, result := range env.Results.Names() {
		if err := ws.EnsureDir("submissions", result); err != nil {
			return d.errorf("%v", err)
		}
	}

	solutionsDir := filepath.Join(a.p.dir, solutionsDirName)
	entries, err := os.ReadDir(solutionsDir)
	if err != nil {
		return d.errorf("submission not found: %v", err)
	}

	copied := mapset.NewThreadUnsafeSet[string]()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), env.Misc.DescSuffix) {
			continue
		}

		fileName, result, err := a.readDescription(d, env, filepath.Join(solutionsDir, e.Name()))
		if err != nil {
			return err
		}
		if !copied.Add(fileName) {
			if err := d.warnf("Submission %s is described more than once, skipped.", fileName); err != nil {
				return err
			}
			continue
		}

		if err := ws.CopyFile(filepath.Join(solutionsDir, fileName), "submissions", result, fileName); err != nil {
			return d.errorf("submission not found: %v", err)
		}
		d.infof("  %s (Expected Result: %s)", fileName, result)
	}
	return nil
}

// readDescription parses "key: value" lines and returns the submission file
// name and its result bucket. Unknown keys are ignored.
func (a *submissionsAspect) readDescription(d *diag, env *Env, path string) (string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", d.errorf("The description file %s has error.", filepath.Base(path))
	}
	defer f.Close()

	var fileName, tag string
	var hasTag bool
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), ": ")
		if !ok {
			continue
		}
		switch key {
		case descFileNameKey:
			fileName = strings.TrimSpace(value)
		case descTagKey:
			tag, hasTag = strings.TrimSpace(value), true
		}
	}
	if err := sc.Err(); err != nil {
		return "", "", d.errorf("The description file %s has error.", filepath.Base(path))
	}

	if fileName == "" {
		return "", "", d.errorf("The description file %s has error.", filepath.Base(path))
	}
	if fileName != filepath.Base(fileName) || fileName == "." || fileName == ".." {
		return "", "", d.errorf("Invalid submission file name %s in %s.", fileName, filepath.Base(path))
	}

	if !hasTag {
		if err := d.warnf("The description file %s has no tag, treat as '%s'", filepath.Base(path), config.Accepted); err != nil {
			return "", "", err
		}
		return fileName, config.Accepted, nil
	}
	result, ok := env.Results.Lookup(tag)
	if !ok {
		if err := d.warnf("Unknown tag: %s, treat as '%s'", tag, config.Accepted); err != nil {
			return "", "", err
		}
		result = config.Accepted
	}
	return fileName, result, nil
}
