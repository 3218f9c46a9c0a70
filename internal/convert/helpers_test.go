package convert_test

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/programme-lv/p2d/api"
	"github.com/programme-lv/p2d/internal/config"
	"github.com/programme-lv/p2d/internal/convert"
	"github.com/stretchr/testify/require"
)

const wcmpSource = "#include \"testlib.h\"\n// compares sequences of tokens\nint main() {}\n"

const customChecker = "#include \"testlib.h\"\n// accepts any permutation\nint main() {}\n"

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Diagnostics returns "<severity> <problem>/<aspect>: <msg>" entries.
func (r *recorder) Diagnostics() []string {
	var res []string
	for _, e := range r.Events() {
		if strings.HasPrefix(e, "warning ") || strings.HasPrefix(e, "error ") {
			res = append(res, e)
		}
	}
	return res
}

func (r *recorder) StartRun(dir string)                { r.add("run start") }
func (r *recorder) StartProblem(problem string)        { r.add("problem %s", problem) }
func (r *recorder) StartAspect(problem, aspect string) { r.add("aspect %s/%s", problem, aspect) }
func (r *recorder) StartArchive(problem string)        { r.add("archive %s", problem) }
func (r *recorder) FinishProblem(o api.Outcome)        { r.add("finish %s", o.Problem) }
func (r *recorder) FinishRun(s api.Summary)            { r.add("run finish") }
func (r *recorder) Diagnostic(problem, aspect string, sev api.Severity, msg string) {
	r.add("%s %s/%s: %s", sev, problem, aspect, msg)
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// newEnv builds an Env with the default results, a std wcmp checker and the
// given problems config.
func newEnv(t *testing.T, problems config.Mapping) (*convert.Env, *recorder) {
	t.Helper()

	resDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(resDir, "testlib.h"), []byte("// testlib\n"), 0644))
	misc, err := config.NewMisc(config.Mapping{
		{Key: "testlib", Value: "testlib.h"},
		{Key: "desc", Value: ".desc"},
		{Key: "out", Value: ".a"},
	}, []string{resDir})
	require.NoError(t, err)

	results, err := config.LoadResults(config.NewLoader())
	require.NoError(t, err)

	checkers := config.NewCheckers()
	require.NoError(t, checkers.Update(config.Mapping{
		{Key: "wcmp", Value: config.Mapping{
			{Key: "md5sum", Value: md5hex(wcmpSource)},
			{Key: "validator_flags", Value: "case_sensitive"},
		}},
	}))

	probs := config.NewProblems()
	require.NoError(t, probs.Update(problems))

	rec := &recorder{}
	return &convert.Env{
		Checkers: checkers,
		Results:  results,
		Problems: probs,
		Misc:     misc,
		OutDir:   t.TempDir(),
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Gatherer: rec,
	}, rec
}

func problemConfig(name string, samples int, extra ...config.Entry) config.Mapping {
	spec := config.Mapping{
		{Key: "probid", Value: strings.ToUpper(name[:1])},
		{Key: "color", Value: "#FF0000"},
		{Key: "samples", Value: samples},
	}
	return config.Mapping{{Key: name, Value: append(spec, extra...)}}
}

type assets struct {
	checker    string
	interactor string
}

func problemXML(name string, timeLimitMs int, a assets) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<?xml version=\"1.0\" encoding=\"utf-8\" standalone=\"no\"?>\n")
	fmt.Fprintf(&sb, "<problem short-name=\"x\">\n  <names><name language=\"english\" value=\"%s\"/></names>\n", name)
	fmt.Fprintf(&sb, "  <judging><testset name=\"tests\"><time-limit>%d</time-limit><memory-limit>268435456</memory-limit></testset></judging>\n", timeLimitMs)
	sb.WriteString("  <assets>\n")
	if a.checker != "" {
		fmt.Fprintf(&sb, "    <checker type=\"testlib\"><source path=\"%s\" type=\"cpp.g++17\"/></checker>\n", a.checker)
	}
	if a.interactor != "" {
		fmt.Fprintf(&sb, "    <interactor><source path=\"%s\" type=\"cpp.g++17\"/></interactor>\n", a.interactor)
	}
	sb.WriteString("  </assets>\n</problem>\n")
	return sb.String()
}

// writeFiles creates files relative to dir; parent directories are created.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// aplusbFiles is a complete package with a custom checker, three tests and
// two jury solutions.
func aplusbFiles() map[string]string {
	return map[string]string{
		"problem.xml":             problemXML("A 'plus' B", 1500, assets{checker: "files/check.cpp"}),
		"files/check.cpp":         customChecker,
		"tests/01":                "1 2\n",
		"tests/01.a":              "3\n",
		"tests/02":                "2 2\n",
		"tests/02.a":              "4\n",
		"tests/03":                "5 5\n",
		"tests/03.a":              "10\n",
		"solutions/main.cpp":      "int main() {}\n",
		"solutions/main.cpp.desc": "File name: main.cpp\nTag: MAIN\n",
		"solutions/wa.cpp":        "int main() { return 1; }\n",
		"solutions/wa.cpp.desc":   "File name: wa.cpp\nTag: WRONG_ANSWER\n",
	}
}

func writePackage(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	writeFiles(t, dir, files)
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}
