// Package util holds small shared helpers: pool sizing, logging setup, path
// canonicalization, and the mmap-backed file cache used by the analysis
// worker pool.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// FileCache provides read access to source files using memory-mapped files.
//
// A project's files are read once by the worker pool and again by the
// re-export follower when barrel files are chased; mapping keeps the second
// read free and lets the OS manage memory pressure. Falls back to
// os.ReadFile when mapping fails (empty files, exotic filesystems).
//
// Thread-safe: reads take a shared lock, first-time loads an exclusive one.
type FileCache struct {
	mu     sync.RWMutex
	files  map[string]*mappedFile
	logger *slog.Logger
}

type mappedFile struct {
	data   mmap.MMap
	plain  []byte // fallback copy when mmap failed
	handle *os.File
}

func (m *mappedFile) bytes() []byte {
	if m.data != nil {
		return m.data
	}
	return m.plain
}

// NewFileCache creates an empty cache. Close must be called to release maps.
func NewFileCache(logger *slog.Logger) *FileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCache{
		files:  make(map[string]*mappedFile),
		logger: logger,
	}
}

// Read returns the contents of the file at path, mapping it on first access.
//
// The returned slice aliases the mapping and must not be modified or retained
// past Close.
func (fc *FileCache) Read(path string) ([]byte, error) {
	fc.mu.RLock()
	mf, ok := fc.files[path]
	fc.mu.RUnlock()
	if ok {
		return mf.bytes(), nil
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Double-check: another goroutine may have loaded it.
	if mf, ok = fc.files[path]; ok {
		return mf.bytes(), nil
	}

	mf, err := fc.load(path)
	if err != nil {
		return nil, err
	}
	fc.files[path] = mf
	return mf.bytes(), nil
}

func (fc *FileCache) load(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("filecache: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("filecache: stat %s: %w", path, err)
	}

	// mmap of a zero-length file fails on most platforms.
	if info.Size() == 0 {
		f.Close()
		return &mappedFile{plain: []byte{}}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Debug("mmap failed, falling back to read", "path", path, "error", err)
		data, rerr := os.ReadFile(path)
		f.Close()
		if rerr != nil {
			return nil, fmt.Errorf("filecache: read %s: %w", path, rerr)
		}
		return &mappedFile{plain: data}, nil
	}

	return &mappedFile{data: m, handle: f}, nil
}

// Evict drops a single file from the cache, unmapping it. Used by watch mode
// when a file changes on disk.
func (fc *FileCache) Evict(path string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if mf, ok := fc.files[path]; ok {
		fc.release(mf)
		delete(fc.files, path)
	}
}

// Len returns the number of cached files.
func (fc *FileCache) Len() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.files)
}

// Close unmaps every cached file. The cache is reusable afterwards.
func (fc *FileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	for path, mf := range fc.files {
		fc.release(mf)
		delete(fc.files, path)
	}
	return nil
}

func (fc *FileCache) release(mf *mappedFile) {
	if mf.data != nil {
		if err := mf.data.Unmap(); err != nil {
			fc.logger.Warn("failed to unmap file", "error", err)
		}
	}
	if mf.handle != nil {
		mf.handle.Close()
	}
}
