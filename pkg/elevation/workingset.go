package elevation

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// DefaultWorkingSetSize is the capacity used when NewWorkingSet gets a
// non-positive size.
const DefaultWorkingSetSize = 32

// WorkingSet is a per-session cache of fields that a Source may use to avoid
// refetching tiles across related calls. The least recently used field is
// evicted when the set is full. A nil *WorkingSet is an empty set that keeps
// nothing. Safe for concurrent use.
type WorkingSet struct {
	cache *lru.Cache[tile.Key, *Field]
}

// NewWorkingSet creates a working set holding up to capacity fields.
func NewWorkingSet(capacity int) *WorkingSet {
	if capacity <= 0 {
		capacity = DefaultWorkingSetSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[tile.Key, *Field](capacity)
	return &WorkingSet{cache: cache}
}

// Get returns the field stored for key and marks it recently used.
func (ws *WorkingSet) Get(key tile.Key) (*Field, bool) {
	if ws == nil {
		return nil, false
	}
	return ws.cache.Get(key)
}

// Put stores a field for key, evicting the oldest entry when full.
func (ws *WorkingSet) Put(key tile.Key, f *Field) {
	if ws == nil {
		return
	}
	ws.cache.Add(key, f)
}

// Len returns the number of cached fields.
func (ws *WorkingSet) Len() int {
	if ws == nil {
		return 0
	}
	return ws.cache.Len()
}

// Clear drops every cached field.
func (ws *WorkingSet) Clear() {
	if ws == nil {
		return
	}
	ws.cache.Purge()
}
