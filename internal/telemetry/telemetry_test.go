package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartExportsSpansOnShutdown(t *testing.T) {
	dir := t.TempDir()
	tel, err := Start(context.Background(), dir)
	require.NoError(t, err)

	_, span := tel.Tracer.Start(context.Background(), "chat_api_call")
	span.End()
	counter, err := tel.Meter.Int64Counter("tool.selections")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	require.NoError(t, tel.Shutdown(context.Background()))

	traces, err := os.ReadFile(filepath.Join(dir, TracesFile))
	require.NoError(t, err)
	assert.Contains(t, string(traces), "chat_api_call")

	metrics, err := os.ReadFile(filepath.Join(dir, MetricsFile))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "tool.selections")
}

func TestInitDBCreatesTables(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "aitoolbox.db"))
	require.NoError(t, err)
	defer db.Close()

	var names []string
	require.NoError(t, db.Select(&names, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('kv', 'sessions', 'messages') ORDER BY name`))
	assert.Equal(t, []string{"kv", "messages", "sessions"}, names)
}
