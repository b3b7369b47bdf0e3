package stats

import (
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

func TestSuffixKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "two plain trailing tokens", input: "+17% to Chaos Resistance", want: "chaosresistance"},
		{name: "numeric prefix stripped", input: "40% increased Armour", want: "increasedarmour"},
		{name: "placeholder stripped like a number", input: "#% increased Armour", want: "increasedarmour"},
		{name: "single token", input: "Onslaught", want: "onslaught"},
		{name: "numeric trailing token stripped", input: "Gain Frenzy Charge on Kill +1", want: "kill"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuffixKey(tt.input))
		})
	}
}

func TestSuffixKeyMatchesValueForms(t *testing.T) {
	// A concrete modifier and its placeholder template must land in the
	// same bucket, otherwise dataset lookups miss.
	assert.Equal(t, SuffixKey("#% increased Armour"), SuffixKey("40% increased Armour"))
	assert.Equal(t, SuffixKey("+# to maximum Life"), SuffixKey("+25 to maximum Life"))
}

func TestStripTokenRunRemovesFirstRunOnly(t *testing.T) {
	assert.Equal(t, "", stripTokenRun("+17%"))
	assert.Equal(t, "Armour", stripTokenRun("Armour"))
	assert.Equal(t, "a-b", stripTokenRun("1a-b"))
}

func TestBuildIndex(t *testing.T) {
	log := testLogger(t)
	raw := RawDataset{
		"increasedarmour": {
			{Matcher: `increased Armour`, Result: map[string][]string{
				"explicitMods": {"explicit.stat_1062208444"},
			}},
		},
		"increasedarmourlocal": {
			{Matcher: `increased Armour`, Result: map[string][]string{
				"explicitMods": {"explicit.stat_1062208444_local"},
			}},
		},
		"broken": {
			{Matcher: `([`, Result: map[string][]string{"explicitMods": {"explicit.stat_1"}}},
		},
	}

	idx := BuildIndex(raw, log)

	assert.Len(t, idx.Lookup("increasedarmour", false), 1)
	assert.Len(t, idx.Lookup("increasedarmour", true), 1)
	assert.Nil(t, idx.Lookup("broken", false), "invalid patterns are dropped")
	assert.Nil(t, idx.Lookup("missing", false))
}

func TestMatcherEntryIDsFor(t *testing.T) {
	entry := &MatcherEntry{Result: map[string][]string{
		"explicitMods": {"explicit.stat_3299347043|+# to maximum Life", "not-a-stat-id"},
		"implicitMods": {"implicit.stat_3299347043"},
	}}

	assert.Equal(t, []string{"explicit.stat_3299347043"}, entry.IDsFor("explicitMods"))
	assert.Equal(t, []string{"implicit.stat_3299347043"}, entry.IDsFor("implicitMods"))
	assert.Empty(t, entry.IDsFor("craftedMods"))
}
