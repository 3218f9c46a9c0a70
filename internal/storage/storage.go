package storage

import (
	"sync"
)

// Storage is a user cache directory for resources the converter can
// download on demand.
type Storage struct {
	mu  sync.Mutex
	dir string
}

func New(dir string) *Storage {
	return &Storage{dir: dir}
}

func (s *Storage) Dir() string {
	return s.dir
}
