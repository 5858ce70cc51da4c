package ssa

import (
	"hash/fnv"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// CacheStats holds model cache statistics.
type CacheStats struct {
	Lookups   uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

type cacheSlot struct {
	path  string
	model *Model
}

// modelCache keeps compiled models keyed by file path. Tags and LRU order
// live in a single fully associative Akita cache directory; the compiled
// models are stored alongside, indexed by way.
type modelCache struct {
	directory *akitacache.DirectoryImpl
	slots     []cacheSlot
	stats     CacheStats
}

func newModelCache(size int) *modelCache {
	return &modelCache{
		directory: akitacache.NewDirectory(
			1,
			size,
			1,
			akitacache.NewLRUVictimFinder(),
		),
		slots: make([]cacheSlot, size),
	}
}

func pathTag(path string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))
	return h.Sum64()
}

// get returns the cached model for path, or nil.
func (c *modelCache) get(path string) *Model {
	c.stats.Lookups++

	block := c.directory.Lookup(0, pathTag(path))
	if block != nil && block.IsValid && c.slots[block.WayID].path == path {
		c.stats.Hits++
		c.directory.Visit(block)
		return c.slots[block.WayID].model
	}

	c.stats.Misses++
	return nil
}

// put stores m under path, evicting the least recently used entry if needed.
func (c *modelCache) put(path string, m *Model) {
	tag := pathTag(path)

	// A live block with the same tag is reused so a tag is never duplicated.
	block := c.directory.Lookup(0, tag)
	if block == nil || !block.IsValid {
		block = c.directory.FindVictim(tag)
		if block == nil {
			return
		}
		if block.IsValid {
			c.stats.Evictions++
		}
	}

	block.Tag = tag
	block.IsValid = true
	block.IsDirty = false
	c.slots[block.WayID] = cacheSlot{path: path, model: m}
	c.directory.Visit(block)
}

// invalidate drops path from the cache.
func (c *modelCache) invalidate(path string) {
	block := c.directory.Lookup(0, pathTag(path))
	if block != nil && block.IsValid && c.slots[block.WayID].path == path {
		block.IsValid = false
		c.slots[block.WayID] = cacheSlot{}
	}
}
