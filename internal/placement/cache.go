package placement

import (
	"context"
	"path"
	"sync"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/vfs"
)

// Watcher signals changes in a directory on disk. onChange fires at most
// once per registration, and registering key again on the same directory
// replaces the pending callback.
type Watcher interface {
	Watch(dir, key string, onChange func()) error
}

// Cache memoises parsed placement files per virtual path. Absent files are
// cached as well. When monitoring is enabled, entries are evicted as soon
// as their directory changes on disk.
type Cache struct {
	parser  *Parser
	fs      vfs.FileSystem
	watcher Watcher
	entries sync.Map // virtual path -> *File (nil when absent)
}

// NewCache creates a cache in front of parser. watcher may be nil.
func NewCache(fs vfs.FileSystem, parser *Parser, watcher Watcher) *Cache {
	return &Cache{parser: parser, fs: fs, watcher: watcher}
}

// Get returns the parsed file at virtualPath, loading it on first use.
// Parse errors are not cached.
func (c *Cache) Get(ctx context.Context, virtualPath string) (*File, error) {
	if v, ok := c.entries.Load(virtualPath); ok {
		return v.(*File), nil
	}

	file, err := c.parser.Load(ctx, virtualPath)
	if err != nil {
		return nil, err
	}
	actual, loaded := c.entries.LoadOrStore(virtualPath, file)
	if !loaded {
		c.monitor(ctx, virtualPath)
	}
	return actual.(*File), nil
}

// Evict drops the cached entry for virtualPath.
func (c *Cache) Evict(virtualPath string) {
	c.entries.Delete(virtualPath)
}

func (c *Cache) monitor(ctx context.Context, virtualPath string) {
	if c.parser.DisableMonitoring || c.watcher == nil {
		return
	}
	mapper, ok := c.fs.(vfs.PhysicalMapper)
	if !ok {
		return
	}
	dir, ok := mapper.PhysicalPath(path.Dir(virtualPath))
	if !ok {
		return
	}
	if err := c.watcher.Watch(dir, "placement:"+virtualPath, func() { c.Evict(virtualPath) }); err != nil {
		ctxlog.FromContext(ctx).Debug("Placement directory not monitored.", "dir", dir, "error", err)
	}
}
