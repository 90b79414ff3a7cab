package goxmi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of documents a cache keeps when NewCache
// is given a non-positive size.
const DefaultCacheSize = 16

// Cache memoizes loaded documents by source name, content hash and load
// options. It is
// safe for concurrent use. Cached documents are shared and must not be
// modified.
type Cache struct {
	docs *lru.Cache[string, *Document]
}

// NewCache returns a cache holding up to size documents.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	docs, err := lru.New[string, *Document](size)
	if err != nil {
		return nil, err
	}
	return &Cache{docs: docs}, nil
}

// Load loads path, reusing the cached document when the path, file
// content and options match an earlier load.
func (c *Cache) Load(ctx context.Context, path string, opts ...LoadOption) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.LoadBytes(ctx, path, data, opts...)
}

// LoadBytes is Load for in-memory content.
func (c *Cache) LoadBytes(ctx context.Context, name string, data []byte, opts ...LoadOption) (*Document, error) {
	cfg := newLoadConfig(opts)
	key := cacheKey(name, data, cfg)

	if doc, ok := c.docs.Get(key); ok {
		if logEnabled(cfg.logger, slog.LevelDebug) {
			cfg.logger.LogAttrs(ctx, slog.LevelDebug, "cache hit",
				slog.String("source", name))
		}
		return doc, nil
	}

	doc, err := loadBytes(ctx, name, data, cfg)
	if err != nil {
		// Documents failing the diagnostic threshold are not cached.
		return doc, err
	}
	c.docs.Add(key, doc)
	return doc, nil
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	return c.docs.Len()
}

// Purge drops every cached document.
func (c *Cache) Purge() {
	c.docs.Purge()
}

// cacheKey hashes the content together with the source name, which ends
// up in Document.Source, and every option that changes the resolved
// document.
func cacheKey(name string, data []byte, cfg loadConfig) string {
	h := sha256.New()
	h.Write(data)
	fmt.Fprintf(h, "\x00%s\x00%s\x00%+v", name, cfg.dialect, cfg.diagConfig)
	return hex.EncodeToString(h.Sum(nil))
}
