package equipment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(
		logger.WithFile(filepath.Join(t.TempDir(), "test.log")),
		logger.WithLevel(zerolog.Disabled),
	)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

const charPayload = `{
	"items": [
		{"inventoryId": "BodyArmour", "typeLine": "Advanced Cuirass", "frameType": 2,
		 "explicitMods": ["40% increased Armour"]}
	],
	"jewels": [
		{"typeLine": "Emerald", "frameType": 2, "explicitMods": ["+17% to Chaos Resistance"]}
	],
	"flasks": [
		{"typeLine": "Ultimate Life Flask", "frameType": 1}
	],
	"charms": []
}`

func TestDecode(t *testing.T) {
	set, err := Decode([]byte(charPayload))
	require.NoError(t, err)

	assert.Len(t, set.Items, 1)
	assert.Len(t, set.Jewels, 1)
	assert.Len(t, set.Flasks, 1)
	assert.Empty(t, set.Charms)
	assert.Equal(t, 3, set.Len())

	assert.Equal(t, "Advanced Cuirass", set.Items[0].TypeLine)
	assert.Equal(t, "BodyArmour", set.Items[0].InventoryID)
}

func TestDecodeCharModelEnvelope(t *testing.T) {
	wrapped := `{"charModel": ` + charPayload + `}`
	set, err := Decode([]byte(wrapped))
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestCategoriesOrder(t *testing.T) {
	set, err := Decode([]byte(charPayload))
	require.NoError(t, err)

	cats := set.Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, "items", cats[0].Name)
	assert.Equal(t, "jewels", cats[1].Name)
	assert.Equal(t, "flasks", cats[2].Name)
	assert.Equal(t, "charms", cats[3].Name)
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "character.json")
	require.NoError(t, os.WriteFile(path, []byte(charPayload), 0644))

	set, err := NewFileProvider(path, testLogger(t)).Equipment()
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestFileProviderErrors(t *testing.T) {
	log := testLogger(t)

	_, err := NewFileProvider(filepath.Join(t.TempDir(), "missing.json"), log).Equipment()
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = NewFileProvider(bad, log).Equipment()
	assert.Error(t, err)
}
