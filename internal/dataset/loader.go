package dataset

import (
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader memoizes datasets by file identity (absolute path + modification
// time). Entries are never evicted; a file whose mtime changes is read again
// under a new version. Concurrent first loads of one version share a read.
type Loader struct {
	mu    sync.RWMutex
	cache map[string]*Dataset
	group singleflight.Group
	reads int // number of disk reads, for tests and diagnostics
}

// NewLoader returns an empty Loader.
func NewLoader() *Loader {
	return &Loader{cache: make(map[string]*Dataset)}
}

// Load returns the cached dataset for path, reading it on first use.
func (l *Loader) Load(path string) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &DataLoadError{Path: path, Reason: "stat file", Err: err}
	}
	if info.IsDir() {
		return nil, &DataLoadError{Path: path, Reason: "path is a directory"}
	}
	// The key doubles as Dataset.Version so a cached entry always
	// describes the file state it was stored under.
	key := versionOf(abs, info)

	l.mu.RLock()
	ds, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		return ds, nil
	}

	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		l.mu.RLock()
		cached, ok := l.cache[key]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}
		fresh, err := readVersion(path, abs, key)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[key] = fresh
		l.reads++
		l.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		if dle, ok := err.(*DataLoadError); ok && dle.Path != path {
			cp := *dle
			cp.Path = path
			return nil, &cp
		}
		return nil, err
	}
	return v.(*Dataset), nil
}

// Reads reports how many times the Loader went to disk.
func (l *Loader) Reads() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reads
}
