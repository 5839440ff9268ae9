package storage

import (
	"os"
	"sync"
	"time"

	"github.com/dpshade/zero-edit/internal/models"
)

// cachedProfile holds one parsed profile with the file state it came from
type cachedProfile struct {
	profile *models.Profile
	modTime time.Time
	size    int64
}

// ProfileCache caches parsed profiles keyed by file path. An entry is valid
// only while the file's modification time and size are unchanged, so edits
// on disk are picked up on the next load.
type ProfileCache struct {
	entries map[string]*cachedProfile
	mu      sync.RWMutex // Protects entries from concurrent access
}

// NewProfileCache creates an empty profile cache
func NewProfileCache() *ProfileCache {
	return &ProfileCache{
		entries: make(map[string]*cachedProfile),
	}
}

// Get retrieves a cached profile for a file, checking if the cache is valid
func (c *ProfileCache) Get(path string, info os.FileInfo) (*models.Profile, bool) {
	c.mu.RLock()
	cached, exists := c.entries[path]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	// Check if file has been modified
	if !info.ModTime().Equal(cached.modTime) || info.Size() != cached.size {
		return nil, false
	}

	return cached.profile, true
}

// Set stores a parsed profile in the cache
func (c *ProfileCache) Set(path string, info os.FileInfo, profile *models.Profile) {
	c.mu.Lock()
	c.entries[path] = &cachedProfile{
		profile: profile,
		modTime: info.ModTime(),
		size:    info.Size(),
	}
	c.mu.Unlock()
}

// Invalidate drops the cache entry for a path
func (c *ProfileCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}
