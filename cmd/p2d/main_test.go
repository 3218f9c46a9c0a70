package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":    slog.LevelDebug,
		"INFO":     slog.LevelInfo,
		"warning":  slog.LevelWarn,
		"warn":     slog.LevelWarn,
		"error":    slog.LevelError,
		"critical": LevelCritical,
	}
	for in, want := range tests {
		got, err := parseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := parseLevel("verbose")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Warn("shown", "problem", "aplusb")
	log.Log(context.Background(), LevelCritical, "fatal")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown")
	require.Contains(t, out, "problem=aplusb")
	require.Contains(t, out, "CRT")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())

	cfgDir := t.TempDir()
	testlib := filepath.Join(t.TempDir(), "testlib.h")
	require.NoError(t, os.WriteFile(testlib, []byte("// testlib\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "misc.yaml"), []byte("testlib: "+testlib+"\n"), 0644))

	set := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(set, "problems.yaml"),
		[]byte("aplusb:\n  probid: A\n  color: '#FF0000'\n  samples: 2\n"), 0644))

	env, err := loadEnv(set, []string{cfgDir})
	require.NoError(t, err)
	require.Equal(t, testlib, env.Misc.Testlib)
	require.Equal(t, ".desc", env.Misc.DescSuffix)

	p, ok := env.Problems.Get("aplusb")
	require.True(t, ok)
	require.Equal(t, 2, p.Samples())
}

func TestFetchTestlibCommand(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, "// testlib v%d\n", hits.Add(1))
	}))
	defer srv.Close()

	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	path := filepath.Join(cacheHome, appName, "testlib.h")

	require.NoError(t, newCommand().Run(context.Background(), []string{appName, "fetch-testlib", "--url", srv.URL}))
	require.NoError(t, newCommand().Run(context.Background(), []string{appName, "fetch-testlib", "--url", srv.URL}))
	require.EqualValues(t, 1, hits.Load())
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "// testlib v1\n", string(body))

	require.NoError(t, newCommand().Run(context.Background(), []string{appName, "fetch-testlib", "--url", srv.URL, "--force"}))
	require.EqualValues(t, 2, hits.Load())
	body, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "// testlib v2\n", string(body))
}
