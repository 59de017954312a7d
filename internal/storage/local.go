package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"archiv/internal/logging"
)

// localStorage reads documents from a directory on the local filesystem.
// It holds no mutable state and is safe for concurrent use.
type localStorage struct {
	dir string
	log *logging.Logger
}

// NewLocal returns a Storage rooted at dir. The directory does not need to exist yet.
func NewLocal(dir string, log *logging.Logger) Storage {
	if log == nil {
		log = logging.Discard()
	}
	return &localStorage{dir: dir, log: log}
}

func (s *localStorage) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.ensureDir()
			return nil, nil
		}
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Name())
	}
	return keys, nil
}

// ensureDir creates the document directory so later calls find it. Racing creators are fine.
func (s *localStorage) ensureDir() {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Warn("document_dir_create_failed", map[string]any{"dir": s.dir, "error": err})
		return
	}
	s.log.Info("document_dir_created", map[string]any{"dir": s.dir})
}

func (s *localStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	fi, err := os.Stat(filepath.Join(s.dir, key))
	if err != nil {
		return ObjectInfo{}, mapFSError(key, err)
	}
	return objectInfo(key, fi)
}

func (s *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		return nil, ObjectInfo{}, mapFSError(key, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, mapFSError(key, err)
	}
	info, err := objectInfo(key, fi)
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	return f, info, nil
}

func (s *localStorage) Ping(ctx context.Context) error {
	fi, err := os.Stat(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat document dir: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("document dir %s is not a directory", s.dir)
	}
	return nil
}

func objectInfo(key string, fi fs.FileInfo) (ObjectInfo, error) {
	if !fi.Mode().IsRegular() {
		return ObjectInfo{}, fmt.Errorf("%w: %s is not a regular file", ErrNotExist, key)
	}
	return ObjectInfo{Key: key, Size: fi.Size(), LastModified: fi.ModTime()}, nil
}

// mapFSError reports names the filesystem cannot hold as missing, not as I/O faults.
func mapFSError(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENAMETOOLONG) {
		return fmt.Errorf("%w: %s", ErrNotExist, key)
	}
	return fmt.Errorf("stat %s: %w", key, err)
}
