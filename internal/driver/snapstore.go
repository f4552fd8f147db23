package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Snapshot format changes
const snapshotSchemaVersion uint16 = 1

// Snapshot holds the pristine bytes of one target file, taken just before
// the first write touched it. Content is the raw on-disk form, BOM and line
// endings included, so a restore is byte-exact.
type Snapshot struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path    string // absolute target path
	Content []byte
	Mode    uint32
	SavedAt time.Time
}

// SnapStore keeps per-file snapshots on disk, keyed by target path.
// Thread-safe for concurrent access.
type SnapStore struct {
	mu  sync.RWMutex
	dir string
}

// OpenSnapStore initializes and returns a snapshot store at the standard
// cache location.
func OpenSnapStore(app string) (*SnapStore, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "snapshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SnapStore{dir: dir}, nil
}

// OpenSnapStoreAt returns a store rooted at an explicit directory.
func OpenSnapStoreAt(dir string) (*SnapStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SnapStore{dir: dir}, nil
}

func (s *SnapStore) pathFor(abs string) string {
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".mp")
}

// Save captures the current on-disk bytes of path. A second Save overwrites
// the previous snapshot, so the store always holds the state before the
// latest write.
func (s *SnapStore) Save(path string) error {
	if s == nil {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	snap := &Snapshot{
		Schema:  snapshotSchemaVersion,
		Path:    abs,
		Content: content,
		Mode:    uint32(info.Mode().Perm()),
		SavedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(abs)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	// Best effort; the temp file is gone already after a successful rename.
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic swap
	return os.Rename(f.Name(), p)
}

// Get reads the snapshot for path. Missing or stale-schema entries report a
// miss, not an error.
func (s *SnapStore) Get(path string) (*Snapshot, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(abs))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var snap Snapshot
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&snap); err != nil {
		return nil, false, err
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, false, nil
	}
	return &snap, true, nil
}

// Restore writes the snapshot bytes back over path. Returns false when no
// snapshot exists.
func (s *SnapStore) Restore(path string) (bool, error) {
	snap, ok, err := s.Get(path)
	if err != nil || !ok {
		return false, err
	}
	if err := os.WriteFile(snap.Path, snap.Content, fs.FileMode(snap.Mode)); err != nil {
		return false, err
	}
	return true, nil
}

// Drop removes the snapshot for path, if any.
func (s *SnapStore) Drop(path string) error {
	if s == nil {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(abs)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
