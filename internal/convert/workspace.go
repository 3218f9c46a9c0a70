package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Workspace is the temporary directory tree a problem is converted into.
type Workspace struct {
	root string
}

func NewWorkspace(shortName string) (*Workspace, error) {
	root, err := os.MkdirTemp("", shortName+"-domjudge")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{root: root}, nil
}

func (w *Workspace) Root() string {
	return w.root
}

// Path joins elem onto the workspace root.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.root}, elem...)...)
}

func (w *Workspace) EnsureDir(elem ...string) error {
	if err := os.MkdirAll(w.Path(elem...), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

func (w *Workspace) WriteFile(data []byte, elem ...string) error {
	path := w.Path(elem...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// CopyFile copies the file at src to elem inside the workspace. A missing
// src is reported with an error satisfying os.IsNotExist.
func (w *Workspace) CopyFile(src string, elem ...string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dst := w.Path(elem...)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

func (w *Workspace) Remove() error {
	return os.RemoveAll(w.root)
}
