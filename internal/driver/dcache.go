package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"ionc/internal/backend/cgen"
	"ionc/internal/project"
)

// Current schema version - increment when CachedOutput format changes
const outputCacheSchemaVersion uint16 = 1

// OutputCache хранит сгенерированный C-текст по ключу (снапшот + опции).
// Thread-safe for concurrent access.
type OutputCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedOutput is one generated translation unit.
type CachedOutput struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Text    string
	Headers []string
	Sources []string
	Stats   cgen.Stats
}

// OpenOutputCache opens the cache at dir, or at the user cache directory
// (XDG_CACHE_HOME or ~/.cache) under app when dir is empty.
func OpenOutputCache(dir, app string) (*OutputCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &OutputCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *OutputCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *OutputCache) pathFor(key project.Digest) string {
	// подкаталог "c" отделяет выходы генератора от прочего
	return filepath.Join(c.dir, "c", key.String()+".mp")
}

func newCachedOutput(res *cgen.Result) *CachedOutput {
	return &CachedOutput{
		Schema:  outputCacheSchemaVersion,
		Text:    res.Text,
		Headers: res.Headers,
		Sources: res.Sources,
		Stats:   res.Stats,
	}
}

// Put serializes and writes a payload to the cache.
func (c *OutputCache) Put(key project.Digest, payload *CachedOutput) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(p), "tmp-"+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a payload. Entries written by another schema count as misses.
func (c *OutputCache) Get(key project.Digest, out *CachedOutput) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if out.Schema != outputCacheSchemaVersion {
		*out = CachedOutput{}
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *OutputCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
