package natsgath

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/programme-lv/p2d/api"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu   sync.Mutex
	subj []string
	msgs []map[string]any
	err  error
}

func (f *fakePublisher) Publish(subj string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	f.subj = append(f.subj, subj)
	f.msgs = append(f.msgs, m)
	return nil
}

func TestNatsGatherer(t *testing.T) {
	pub := &fakePublisher{}
	g := newGatherer(pub, "run-1", "p2d.events")

	g.StartRun("contest")
	g.StartProblem("aplusb")
	g.StartAspect("aplusb", "data")
	g.Diagnostic("aplusb", "data", api.SeverityWarning, "The file tests/03 does not end with '\\n'.")
	g.StartArchive("aplusb")
	g.FinishProblem(api.Outcome{Problem: "aplusb", Report: api.Report{Warnings: 1}, Archive: "aplusb.zip"})
	g.FinishRun(api.NewSummary(nil))

	require.Len(t, pub.msgs, 7)
	var types []string
	for i, m := range pub.msgs {
		require.Equal(t, "p2d.events", pub.subj[i])
		require.Equal(t, "run-1", m["run_uuid"])
		types = append(types, m["msg_type"].(string))
	}
	require.Equal(t, []string{
		"run_start", "problem_start", "aspect_start", "diagnostic",
		"archive_start", "problem_finish", "run_finish",
	}, types)

	diag := pub.msgs[3]
	require.Equal(t, "warning", diag["severity"])
	require.Equal(t, "data", diag["aspect"])
	require.Equal(t, "aplusb.zip", pub.msgs[5]["archive"])
}

func TestNatsGatherer_PublishErrorIsIgnored(t *testing.T) {
	g := newGatherer(&fakePublisher{err: errors.New("connection closed")}, "run-1", "p2d.events")
	require.NotPanics(t, func() { g.StartProblem("aplusb") })
}

func TestTrimStrToRect(t *testing.T) {
	require.Equal(t, "", trimStrToRect("", 2, 3))
	require.Equal(t, "abc[...]\nde\n[...]", trimStrToRect("abcdef\nde\nfg", 2, 3))
	require.Equal(t, "ab", trimStrToRect("ab", 2, 3))
	require.Equal(t, strings.Repeat("x", 3)+"[...]", trimStrToRect(strings.Repeat("x", 10), 1, 3))
}

func TestTrimStrToRect_KeepsRunesWhole(t *testing.T) {
	got := trimStrToRect("ааа", 1, 3)
	require.Equal(t, "а[...]", got)
	require.True(t, utf8.ValidString(got))

	got = trimStrToRect("ёжик\nлес\nполе", 1, 5)
	require.Equal(t, "ёж[...]\n[...]", got)
	require.True(t, utf8.ValidString(got))
}
