package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemUnmarshalFlat(t *testing.T) {
	data := []byte(`{
		"inventoryId": "BodyArmour",
		"name": "Kaom's Heart",
		"typeLine": "Glorious Plate",
		"baseType": "Glorious Plate",
		"frameType": 3,
		"ilvl": 78,
		"identified": true,
		"armour": 620,
		"explicitMods": ["40% increased Armour"]
	}`)

	var item Item
	require.NoError(t, json.Unmarshal(data, &item))

	assert.Equal(t, "Kaom's Heart", item.Name)
	assert.Equal(t, FrameUnique, item.FrameType)
	assert.Equal(t, 78, item.ItemLevel)
	require.NotNil(t, item.Identified)
	assert.True(t, *item.Identified)
	require.NotNil(t, item.Armour)
	assert.Equal(t, 620, *item.Armour)
	assert.Nil(t, item.Evasion, "absent defences stay nil")
}

func TestItemUnmarshalItemDataEnvelope(t *testing.T) {
	data := []byte(`{
		"inventoryId": "Weapon",
		"itemData": {
			"typeLine": "Expert Forge Maul",
			"frameType": 2,
			"explicitMods": ["Adds 10 to 20 Physical Damage"]
		}
	}`)

	var item Item
	require.NoError(t, json.Unmarshal(data, &item))

	assert.Equal(t, "Expert Forge Maul", item.TypeLine)
	assert.Equal(t, "Weapon", item.InventoryID, "slot survives the envelope")
	assert.Equal(t, []string{"Adds 10 to 20 Physical Damage"}, item.ExplicitMods)
}

func TestFrameTypeRarity(t *testing.T) {
	assert.Equal(t, "normal", FrameNormal.Rarity())
	assert.Equal(t, "magic", FrameMagic.Rarity())
	assert.Equal(t, "rare", FrameRare.Rarity())
	assert.Equal(t, "unique", FrameUnique.Rarity())
	assert.Equal(t, "", FrameType(9).Rarity())
}

func TestModsGroupOrder(t *testing.T) {
	item := Item{
		EnchantMods:   []string{"e"},
		ImplicitMods:  []string{"i"},
		FracturedMods: []string{"f"},
		ExplicitMods:  []string{"x"},
		CraftedMods:   []string{"c"},
	}

	var got []string
	for _, group := range ModGroups {
		got = append(got, item.Mods(group)...)
	}
	assert.Equal(t, []string{"e", "i", "f", "x", "c"}, got)
}

func TestIsEquipment(t *testing.T) {
	armour := 100
	tests := []struct {
		name string
		item Item
		want bool
	}{
		{name: "armour category", item: Item{Category: "armour.chest"}, want: true},
		{name: "weapon category", item: Item{Category: "weapon.twomace"}, want: true},
		{name: "equipment slot", item: Item{InventoryID: "Gloves"}, want: true},
		{name: "defence value", item: Item{Armour: &armour}, want: true},
		{name: "ring", item: Item{InventoryID: "Ring", Category: "accessory.ring"}, want: false},
		{name: "jewel", item: Item{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.IsEquipment())
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Kaom's Heart", (&Item{Name: "Kaom's Heart", TypeLine: "Glorious Plate"}).DisplayName())
	assert.Equal(t, "Glorious Plate", (&Item{TypeLine: "Glorious Plate"}).DisplayName())
	assert.Equal(t, "Emerald", (&Item{BaseType: "Emerald"}).DisplayName())
}

func TestPropertyDisplayValue(t *testing.T) {
	p := Property{Name: "Attacks per Second", Values: [][]any{{"1.25", float64(0)}}}
	assert.Equal(t, "1.25", p.DisplayValue())
	assert.Equal(t, "", Property{}.DisplayValue())
}
