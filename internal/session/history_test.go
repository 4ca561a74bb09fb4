package session

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AIToolbox/internal/telemetry"
)

func TestHistoryRoundTrip(t *testing.T) {
	db, err := telemetry.InitDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	h := NewHistory(db, slog.New(slog.NewTextHandler(io.Discard, nil)))

	start := time.Now().UTC().Truncate(time.Second)
	sess := &Session{ID: "s1", StartTime: start, Backend: "gemini"}
	require.NoError(t, h.Start(sess))

	require.NoError(t, h.Append("s1", Message{Role: RoleUser, Text: "Hello", Timestamp: start}))
	require.NoError(t, h.Append("s1", Message{Role: RoleModel, Text: "Hi there", Timestamp: start}))
	require.NoError(t, h.Append("s1", Message{Role: RoleUser, Text: "Bye", Timestamp: start.Add(time.Second)}))

	loaded, err := h.Load("s1")
	require.NoError(t, err)
	assert.Equal(t, "gemini", loaded.Backend)
	require.Len(t, loaded.Messages, 3)
	assert.Equal(t, RoleUser, loaded.Messages[0].Role)
	assert.Equal(t, "Hello", loaded.Messages[0].Text)
	assert.Equal(t, RoleModel, loaded.Messages[1].Role)
	assert.Equal(t, "Bye", loaded.Messages[2].Text)
}

func TestHistoryLoadMissing(t *testing.T) {
	db, err := telemetry.InitDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	h := NewHistory(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err = h.Load("nope")
	require.Error(t, err)
}
