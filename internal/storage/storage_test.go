package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AIToolbox/internal/telemetry"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("language")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("language", "es"))
	v, ok, err := s.Get("language")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "es", v)

	require.NoError(t, s.Set("language", "en"))
	v, _, err = s.Get("language")
	require.NoError(t, err)
	assert.Equal(t, "en", v)

	require.NoError(t, s.Delete("language"))
	_, ok, err = s.Get("language")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete("never-set"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	db, err := telemetry.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	exerciseStore(t, NewSQLiteStore(db))
}

func TestSQLiteStoreClosedDB(t *testing.T) {
	db, err := telemetry.InitDB(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	s := NewSQLiteStore(db)
	require.NoError(t, db.Close())

	err = s.Set("k", "v")
	var serr *StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "set", serr.Op)
	assert.Equal(t, "k", serr.Key)
}
