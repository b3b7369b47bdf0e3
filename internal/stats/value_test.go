package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "signed percent", input: "+17% to Chaos Resistance", want: 17, ok: true},
		{name: "plain increase", input: "40% increased Armour", want: 40, ok: true},
		{name: "negative value", input: "-5 to Mana Cost of Skills", want: -5, ok: true},
		{name: "decimal", input: "Regenerate 1.5 Life per second", want: 1.5, ok: true},
		{name: "ranged mod yields the first bound", input: "Adds 10 to 20 Physical Damage", want: 10, ok: true},
		{name: "no number", input: "Cannot be Frozen", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractValue(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
