// ABOUTME: Tests for the embedded theme catalog
// ABOUTME: Pins the closed token set and per-theme phrasing assignments

package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ParsesCatalog(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"orange", "blue", "pink", "lucky", "gold", "all"}, table.Tokens())
}

func TestLoad_CatalogShape(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	wantPhrasing := map[string]Phrasing{
		"orange": PhrasingCode,
		"blue":   PhrasingCode,
		"pink":   PhrasingKey,
		"lucky":  PhrasingDate,
		"gold":   PhrasingCode,
		"all":    PhrasingKey,
	}
	for token, phrasing := range wantPhrasing {
		th, ok := table.Lookup(token)
		require.True(t, ok, "token %q missing from catalog", token)
		assert.Equal(t, phrasing, th.Phrasing, "token %q", token)
		assert.NotEmpty(t, th.Name, "token %q", token)
		assert.NotEmpty(t, th.Action, "token %q", token)
	}
}

func TestLoad_OnlyAggregateCarriesGold(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	for _, token := range table.Tokens() {
		th, _ := table.Lookup(token)
		assert.Equal(t, token == "all", th.Gold, "token %q", token)
	}
}

func TestTable_Lookup_UnknownToken(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	_, ok := table.Lookup("purple")
	assert.False(t, ok)
}
