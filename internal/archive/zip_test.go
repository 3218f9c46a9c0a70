package archive_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/programme-lv/p2d/internal/archive"
	"github.com/stretchr/testify/require"
)

func TestZipDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data", "sample"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "submissions", "accepted"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "problem.yaml"), []byte("validation: default\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "sample", "01.in"), []byte("1 2\n"), 0644))

	dst := filepath.Join(t.TempDir(), "aplusb.zip")
	require.NoError(t, archive.ZipDir(root, dst))

	zr, err := zip.OpenReader(dst)
	require.NoError(t, err)
	defer zr.Close()

	files := map[string]string{}
	var dirs []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			dirs = append(dirs, f.Name)
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(b)
	}

	require.Equal(t, map[string]string{
		"problem.yaml":      "validation: default\n",
		"data/sample/01.in": "1 2\n",
	}, files)
	require.ElementsMatch(t, []string{"data/", "data/sample/", "submissions/", "submissions/accepted/"}, dirs)
}

func TestZipDir_MissingRoot(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "x.zip")
	require.Error(t, archive.ZipDir(filepath.Join(t.TempDir(), "missing"), dst))
	_, err := os.Stat(dst)
	require.True(t, os.IsNotExist(err))
}
