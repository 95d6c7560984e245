package model

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"loanpredict/internal/logger"

	"github.com/fsnotify/fsnotify"
)

type cacheEntry struct {
	predictor Predictor
	modTime   time.Time
	size      int64
}

// Cache keeps parsed predictors per artifact path. Every Get re-checks the
// file on disk, so a removed artifact is reported as missing and a replaced
// one is reparsed; the optional fsnotify watcher evicts eagerly so an
// operator re-upload is picked up without waiting for the next stat.
type Cache struct {
	load func(string) (Predictor, error)

	mu      sync.RWMutex
	entries map[string]cacheEntry

	watcher *fsnotify.Watcher
	dirs    map[string]bool
}

// NewCache builds a cache; watch enables filesystem notifications.
func NewCache(watch bool) (*Cache, error) {
	c := &Cache{
		load:    Load,
		entries: make(map[string]cacheEntry),
		dirs:    make(map[string]bool),
	}
	if watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("create artifact watcher: %w", err)
		}
		c.watcher = w
	}
	return c, nil
}

// Get returns the predictor for path, loading it when absent or stale.
func (c *Cache) Get(path string) (Predictor, error) {
	path = filepath.Clean(path)
	info, err := Stat(path)
	if err != nil {
		c.Invalidate(path)
		return nil, err
	}
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.predictor, nil
	}
	p, err := c.load(path)
	if err != nil {
		c.Invalidate(path)
		return nil, err
	}
	c.mu.Lock()
	c.entries[path] = cacheEntry{predictor: p, modTime: info.ModTime(), size: info.Size()}
	c.mu.Unlock()
	c.watchDir(filepath.Dir(path))
	logger.Infof("Model artifact loaded: %s (kind=%s, features=%d)", filepath.Base(path), p.Kind(), len(p.Features()))
	return p, nil
}

// Invalidate drops the cached predictor for path.
func (c *Cache) Invalidate(path string) {
	path = filepath.Clean(path)
	c.mu.Lock()
	_, ok := c.entries[path]
	delete(c.entries, path)
	c.mu.Unlock()
	if ok {
		logger.Infof("Model artifact evicted: %s", filepath.Base(path))
	}
}

// Len reports how many predictors are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) watchDir(dir string) {
	if c.watcher == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirs[dir] {
		return
	}
	if err := c.watcher.Add(dir); err != nil {
		logger.Warnf("artifact watch on %s failed: %v", dir, err)
		return
	}
	c.dirs[dir] = true
}

// Run consumes watcher events until ctx is done. It returns immediately when
// watching is disabled.
func (c *Cache) Run(ctx context.Context) error {
	if c.watcher == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-c.watcher.Events:
			if !ok {
				return nil
			}
			if evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) || evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
				logger.Debugf("artifact change %s %s", evt.Op, evt.Name)
				c.Invalidate(evt.Name)
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("artifact watcher error: %v", err)
		}
	}
}

// Close stops the watcher.
func (c *Cache) Close() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Close()
}
