// Package analytics counts tool selections in a persisted JSON blob.
package analytics

import (
	"encoding/json"
	"log/slog"
	"sync"

	"AIToolbox/internal/storage"
	"AIToolbox/internal/tool"
)

// StorageKey is the store entry holding the serialized counters
const StorageKey = "gemini-tool-analytics"

// Tracker records and reads usage counters
type Tracker struct {
	mu     sync.Mutex
	store  storage.Store
	logger *slog.Logger
}

// NewTracker creates a tracker over store
func NewTracker(store storage.Store, logger *slog.Logger) *Tracker {
	return &Tracker{store: store, logger: logger}
}

// Record increments the counter for id, starting it at 1 when absent
func (t *Tracker) Record(id tool.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	counts := t.load()
	counts[id]++

	data, err := json.Marshal(counts)
	if err != nil {
		t.logger.Warn("failed to encode tool usage", "tool", id, "error", err)
		return
	}
	if err := t.store.Set(StorageKey, string(data)); err != nil {
		t.logger.Warn("failed to record tool usage", "tool", id, "error", err)
	}
}

// ReadAll returns every recorded counter. Missing or corrupt data reads as empty.
func (t *Tracker) ReadAll() map[tool.ID]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

// Total sums all counters
func (t *Tracker) Total() int {
	total := 0
	for _, n := range t.ReadAll() {
		total += n
	}
	return total
}

// ClearAll removes the persisted counters
func (t *Tracker) ClearAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Delete(StorageKey); err != nil {
		t.logger.Warn("failed to clear tool usage", "error", err)
	}
}

// load must be called with t.mu held
func (t *Tracker) load() map[tool.ID]int {
	counts := make(map[tool.ID]int)

	raw, ok, err := t.store.Get(StorageKey)
	if err != nil {
		t.logger.Warn("failed to read tool usage", "error", err)
		return counts
	}
	if !ok || raw == "" {
		return counts
	}

	var decoded map[string]int
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.logger.Warn("discarding corrupt tool usage data", "error", err)
		return counts
	}
	for key, n := range decoded {
		id, err := tool.Parse(key)
		if err != nil || n <= 0 {
			continue
		}
		counts[id] = n
	}
	return counts
}
