package analytics

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AIToolbox/internal/storage"
	"AIToolbox/internal/tool"
)

func newTracker(t *testing.T) (*Tracker, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewTracker(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func TestRecordIncrementsOnlyThatTool(t *testing.T) {
	tr, _ := newTracker(t)
	tr.Record(tool.Chat)
	tr.Record(tool.Chat)
	tr.Record(tool.CodeGen)

	before := tr.ReadAll()
	tr.Record(tool.Chat)
	after := tr.ReadAll()

	assert.Equal(t, before[tool.Chat]+1, after[tool.Chat])
	for _, id := range tool.All {
		if id == tool.Chat {
			continue
		}
		assert.Equal(t, before[id], after[id], "tool %s changed", id)
	}
	assert.Equal(t, 4, tr.Total())
}

func TestRecordCreatesAtOne(t *testing.T) {
	tr, _ := newTracker(t)
	tr.Record(tool.Summarizer)
	assert.Equal(t, map[tool.ID]int{tool.Summarizer: 1}, tr.ReadAll())
}

func TestClearAll(t *testing.T) {
	tr, store := newTracker(t)
	tr.Record(tool.WebSearch)
	tr.ClearAll()

	assert.Empty(t, tr.ReadAll())
	_, ok, err := store.Get(StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "blob removed entirely")
}

func TestReadAllIdempotent(t *testing.T) {
	tr, _ := newTracker(t)
	tr.Record(tool.ImageGen)
	assert.Equal(t, tr.ReadAll(), tr.ReadAll())
}

func TestCorruptDataReadsEmpty(t *testing.T) {
	tr, store := newTracker(t)
	require.NoError(t, store.Set(StorageKey, "{not json"))
	assert.Empty(t, tr.ReadAll())

	tr.Record(tool.Admin)
	assert.Equal(t, map[tool.ID]int{tool.Admin: 1}, tr.ReadAll())
}

func TestUnknownAndNegativeEntriesDropped(t *testing.T) {
	tr, store := newTracker(t)
	require.NoError(t, store.Set(StorageKey, `{"chat":3,"translator":9,"codeGen":-2}`))
	assert.Equal(t, map[tool.ID]int{tool.Chat: 3}, tr.ReadAll())
}
