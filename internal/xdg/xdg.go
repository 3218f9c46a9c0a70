package xdg

import (
	"os"
	"path/filepath"
	"slices"
)

// Dirs resolves XDG Base Directory locations used for config and cache files.
type Dirs struct {
	configHome string
	configDirs []string
	cacheHome  string
}

// New reads the XDG environment variables and falls back to the XDG Base
// Directory defaults.
func New() *Dirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = os.TempDir()
		}
	}

	d := &Dirs{}

	d.configHome = os.Getenv("XDG_CONFIG_HOME")
	if d.configHome == "" {
		d.configHome = filepath.Join(homeDir, ".config")
	}

	d.cacheHome = os.Getenv("XDG_CACHE_HOME")
	if d.cacheHome == "" {
		d.cacheHome = filepath.Join(homeDir, ".cache")
	}

	// XDG_CONFIG_DIRS is preference ordered, most important first
	configDirsEnv := os.Getenv("XDG_CONFIG_DIRS")
	if configDirsEnv == "" {
		d.configDirs = []string{"/etc/xdg"}
	} else {
		d.configDirs = filepath.SplitList(configDirsEnv)
	}

	return d
}

func (d *Dirs) ConfigHome() string {
	return d.configHome
}

func (d *Dirs) CacheHome() string {
	return d.cacheHome
}

// AppConfigSearchPath returns the config directories of app ordered from the
// lowest to the highest precedence: system dirs first, the user dir last.
func (d *Dirs) AppConfigSearchPath(app string) []string {
	dirs := make([]string, 0, len(d.configDirs)+1)
	for _, dir := range slices.Backward(d.configDirs) {
		dirs = append(dirs, filepath.Join(dir, app))
	}
	return append(dirs, filepath.Join(d.configHome, app))
}

func (d *Dirs) AppCacheDir(app string) string {
	return filepath.Join(d.cacheHome, app)
}
