package catalog

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// pathCacheEntry is a persisted row recording the executable basenames
// found in one PATH directory, keyed by that directory's modification
// time so a startup scan can skip directories that haven't changed.
type pathCacheEntry struct {
	Dir       string `gorm:"primaryKey"`
	ModUnix   int64  // directory mtime, Unix nanoseconds
	Basenames string // newline-joined
}

// Cache wraps a small SQLite-backed cache of per-directory PATH scans.
type Cache struct {
	db *gorm.DB
}

// OpenCache opens (creating if necessary) the SQLite cache at dbPath.
func OpenCache(dbPath string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog cache: %w", err)
	}
	if err := db.AutoMigrate(&pathCacheEntry{}); err != nil {
		return nil, fmt.Errorf("migrate catalog cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Lookup returns the cached basenames for dir if the cache entry's
// recorded mtime still matches modUnix.
func (c *Cache) Lookup(dir string, modUnix int64) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	var entry pathCacheEntry
	if err := c.db.First(&entry, "dir = ?", dir).Error; err != nil {
		return nil, false
	}
	if entry.ModUnix != modUnix {
		return nil, false
	}
	return splitLines(entry.Basenames), true
}

// Store upserts the scan result for dir.
func (c *Cache) Store(dir string, modUnix int64, basenames []string) {
	if c == nil {
		return
	}
	entry := pathCacheEntry{Dir: dir, ModUnix: modUnix, Basenames: joinLines(basenames)}
	c.db.Save(&entry)
}

func joinLines(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += "\n"
		}
		out += s
	}
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
