// Package cache is adapted from the teacher's analysis-result cache: same
// file-hash-keyed, TTL-evicted entry model, but re-pointed at filter
// outputs. The key is sha256(input bytes) + filter kind; the value is the
// filtered pixel buffer, stored zstd-compressed on disk so repeated-filter
// demo corpora stay small.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/MBatuhanOzer/filter/pkg/engine"
	"github.com/MBatuhanOzer/filter/pkg/errors"
)

// Cache stores filtered image outputs on disk, keyed by input content
// hash and filter kind.
type Cache struct {
	dir string
	ttl time.Duration
}

// entry is the metadata sidecar for one cached output; the pixel payload
// lives in a separate zstd-compressed file named after Key.
type entry struct {
	Key       string    `json:"key"`
	Kind      string    `json:"kind"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Channels  int       `json:"channels"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a Cache rooted at dir (created if absent). ttl == 0 selects
// a 7-day default; a negative ttl makes every entry already expired.
func New(dir string, ttl time.Duration) *Cache {
	if dir == "" {
		dir = ".cache/imgfilter"
	}
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	os.MkdirAll(dir, 0755)
	return &Cache{dir: dir, ttl: ttl}
}

// Key hashes input bytes together with the filter kind name.
func Key(input []byte, kind string) string {
	h := sha256.New()
	h.Write(input)
	h.Write([]byte{0})
	h.Write([]byte(kind))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) metaPath(key string) string { return filepath.Join(c.dir, key+".json") }
func (c *Cache) dataPath(key string) string { return filepath.Join(c.dir, key+".zst") }

// Get returns the cached output for key, if present and not expired.
func (c *Cache) Get(key string) (engine.ImageView, bool) {
	meta, err := os.ReadFile(c.metaPath(key))
	if err != nil {
		return engine.ImageView{}, false
	}
	var e entry
	if err := json.Unmarshal(meta, &e); err != nil {
		return engine.ImageView{}, false
	}
	if time.Since(e.Timestamp) > c.ttl {
		c.remove(key)
		return engine.ImageView{}, false
	}

	compressed, err := os.ReadFile(c.dataPath(key))
	if err != nil {
		return engine.ImageView{}, false
	}
	pixels, err := decompress(compressed)
	if err != nil {
		return engine.ImageView{}, false
	}

	return engine.ImageView{Pixels: pixels, Width: e.Width, Height: e.Height, Channels: e.Channels}, true
}

// Put stores view under key, compressing its pixel buffer with zstd.
func (c *Cache) Put(key string, kind string, view engine.ImageView) error {
	compressed, err := compress(view.Pixels)
	if err != nil {
		return errors.Wrap(err, errors.CacheError, "failed to compress cache entry")
	}
	if err := os.WriteFile(c.dataPath(key), compressed, 0644); err != nil {
		return errors.Wrap(err, errors.CacheError, "failed to write cache data")
	}

	e := entry{
		Key:       key,
		Kind:      kind,
		Width:     view.Width,
		Height:    view.Height,
		Channels:  view.Channels,
		Timestamp: time.Now(),
	}
	meta, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CacheError, "failed to marshal cache metadata")
	}
	if err := os.WriteFile(c.metaPath(key), meta, 0644); err != nil {
		return errors.Wrap(err, errors.CacheError, "failed to write cache metadata")
	}
	return nil
}

func (c *Cache) remove(key string) {
	os.Remove(c.metaPath(key))
	os.Remove(c.dataPath(key))
}

// Clear deletes every entry in the cache directory.
func (c *Cache) Clear() error {
	return os.RemoveAll(c.dir)
}

// Stats summarizes the cache directory's contents.
type Stats struct {
	TotalEntries int
	TotalBytes   int64
}

// Stats walks the cache directory and totals entry count and on-disk size.
func (c *Cache) Stats() (Stats, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Stats{}, nil
		}
		return Stats{}, errors.Wrap(err, errors.CacheError, "failed to read cache directory")
	}

	var stats Stats
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if filepath.Ext(f.Name()) == ".json" {
			stats.TotalEntries++
		}
		if info, err := f.Info(); err == nil {
			stats.TotalBytes += info.Size()
		}
	}
	return stats, nil
}

func compress(data []byte) ([]byte, error) {
	w, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer w.Close()
	return w.EncodeAll(data, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.DecodeAll(data, nil)
}
