package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

const TestlibURL = "https://raw.githubusercontent.com/MikeMirzayanov/testlib/master/testlib.h"

const testlibFname = "testlib.h"

func (s *Storage) TestlibPath() string {
	return filepath.Join(s.dir, testlibFname)
}

// HasTestlib reports whether testlib.h is already cached.
func (s *Storage) HasTestlib() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasTestlib()
}

func (s *Storage) hasTestlib() (bool, error) {
	_, err := os.Stat(s.TestlibPath())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check if testlib exists in cache: %w", err)
	}
	return true, nil
}

// FetchTestlib downloads testlib.h from url into the cache and returns its
// path. A cached copy is kept unless force is set.
func (s *Storage) FetchTestlib(ctx context.Context, url string, force bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.TestlibPath()
	if !force {
		cached, err := s.hasTestlib()
		if err != nil {
			return "", err
		}
		if cached {
			return path, nil
		}
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download testlib: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	tmp, err := os.CreateTemp(s.dir, testlibFname+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write testlib: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write testlib: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move testlib into cache: %w", err)
	}

	return path, nil
}
