package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// ZipDir writes the tree under root into a zip archive at dst. Entry names are
// slash separated and relative to root; directories get their own entries.
func ZipDir(root, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", dst, err)
	}

	zw := zip.NewWriter(out)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		return addEntry(zw, path, filepath.ToSlash(rel), d)
	})

	closeErr := zw.Close()
	if err := out.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	if walkErr != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to archive %s: %w", root, walkErr)
	}
	if closeErr != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to finish archive %s: %w", dst, closeErr)
	}
	return nil
}

func addEntry(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	if d.IsDir() {
		hdr.Name += "/"
		_, err = zw.CreateHeader(hdr)
		return err
	}
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
