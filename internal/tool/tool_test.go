package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, id := range All {
		got, err := Parse(string(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	_, err := Parse("translator")
	require.Error(t, err)
	_, err = Parse("")
	require.Error(t, err)
}

func TestAllHaveIcons(t *testing.T) {
	require.Len(t, All, 9)
	seen := map[ID]bool{}
	for _, id := range All {
		assert.False(t, seen[id], "duplicate tool %s", id)
		seen[id] = true
		assert.NotEmpty(t, id.Icon())
		assert.Equal(t, "tool."+string(id), id.TranslationKey())
	}
}
