package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when cachePayload format changes
const outcomeCacheSchemaVersion uint16 = 1

// OutcomeCache stores per-file error counts on disk, keyed by content hash.
// Thread-safe for concurrent access.
type OutcomeCache struct {
	mu   sync.RWMutex
	dir  string
	salt string
}

type cachePayload struct {
	Schema uint16
	Salt   string
	Path   string
	Errors int
	Stored int64
}

// OpenOutcomeCache opens the cache at the standard per-user location.
// salt separates entries produced by different engine builds.
func OpenOutcomeCache(app, salt string) (*OutcomeCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewOutcomeCache(filepath.Join(base, app), salt)
}

// NewOutcomeCache opens a cache rooted at dir, creating it if needed.
func NewOutcomeCache(dir, salt string) (*OutcomeCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &OutcomeCache{dir: dir, salt: salt}, nil
}

// Dir returns the cache directory.
func (c *OutcomeCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *OutcomeCache) key(src []byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(c.salt))
	h.Write([]byte{0})
	h.Write(src)
	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (c *OutcomeCache) pathFor(key [sha256.Size]byte) string {
	hexKey := hex.EncodeToString(key[:])
	// two-level fan-out keeps directories small
	return filepath.Join(c.dir, "outcomes", hexKey[:2], hexKey+".mp")
}

// Put records the error count for src.
func (c *OutcomeCache) Put(path string, src []byte, count int) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(c.key(src))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// already renamed on success
		_ = os.Remove(tmp)
	}()

	payload := cachePayload{
		Schema: outcomeCacheSchemaVersion,
		Salt:   c.salt,
		Path:   path,
		Errors: count,
		Stored: time.Now().Unix(),
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get returns the recorded error count for src. A missing, stale or
// unreadable entry is a miss.
func (c *OutcomeCache) Get(src []byte) (int, bool, error) {
	if c == nil {
		return 0, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(c.key(src)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, err
	}
	defer func() {
		_ = f.Close()
	}()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return 0, false, err
	}
	if payload.Schema != outcomeCacheSchemaVersion || payload.Salt != c.salt || payload.Errors < 0 {
		return 0, false, nil
	}
	return payload.Errors, true, nil
}

// DropAll removes every cached outcome.
func (c *OutcomeCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
