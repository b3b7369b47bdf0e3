package models

import (
	"encoding/json"
	"strings"
)

// FrameType is the rarity tier encoded in scraped item records.
type FrameType int

const (
	FrameNormal FrameType = 0
	FrameMagic  FrameType = 1
	FrameRare   FrameType = 2
	FrameUnique FrameType = 3
)

// Rarity returns the trade API option name for the tier, or "" for tiers
// the API has no filter option for.
func (f FrameType) Rarity() string {
	switch f {
	case FrameNormal:
		return "normal"
	case FrameMagic:
		return "magic"
	case FrameRare:
		return "rare"
	case FrameUnique:
		return "unique"
	}
	return ""
}

// ModGroup names one of the modifier lists attached to an item. The
// values match the field names used by the scraped data and by the
// matcher dataset's result maps.
type ModGroup string

const (
	GroupEnchant   ModGroup = "enchantMods"
	GroupImplicit  ModGroup = "implicitMods"
	GroupFractured ModGroup = "fracturedMods"
	GroupExplicit  ModGroup = "explicitMods"
	GroupCrafted   ModGroup = "craftedMods"
)

// ModGroups is the fixed processing order for modifier groups.
var ModGroups = []ModGroup{
	GroupEnchant,
	GroupImplicit,
	GroupFractured,
	GroupExplicit,
	GroupCrafted,
}

// Property is a display property line from an item record, e.g.
// {"name": "Attacks per Second", "values": [["1.25", 0]]}.
type Property struct {
	Name   string  `json:"name"`
	Values [][]any `json:"values"`
}

// DisplayValue returns the first display string of the property, or "".
func (p Property) DisplayValue() string {
	if len(p.Values) == 0 || len(p.Values[0]) == 0 {
		return ""
	}
	s, _ := p.Values[0][0].(string)
	return s
}

// Item is one equipped item as scraped from a character page. Fields that
// the upstream payload omits stay nil so callers can tell "absent" from
// "zero".
type Item struct {
	Category    string `json:"category"`
	InventoryID string `json:"inventoryId"`
	Name        string `json:"name"`
	TypeLine    string `json:"typeLine"`
	BaseType    string `json:"baseType"`

	FrameType  FrameType `json:"frameType"`
	Identified *bool     `json:"identified"`
	ItemLevel  int       `json:"ilvl"`
	Quality    int       `json:"quality"`

	Armour       *int `json:"armour"`
	Evasion      *int `json:"evasion"`
	EnergyShield *int `json:"energyShield"`
	Spirit       *int `json:"spirit"`
	Block        *int `json:"block"`

	DoubleCorrupted bool `json:"doubleCorrupted"`
	Fractured       bool `json:"fractured"`
	Sanctified      bool `json:"sanctified"`
	Duplicated      bool `json:"duplicated"`
	Mirrored        bool `json:"mirrored"`

	Properties []Property `json:"properties"`

	EnchantMods   []string `json:"enchantMods"`
	ImplicitMods  []string `json:"implicitMods"`
	FracturedMods []string `json:"fracturedMods"`
	ExplicitMods  []string `json:"explicitMods"`
	CraftedMods   []string `json:"craftedMods"`

	SocketedItems []Item `json:"socketedItems"`
}

// item avoids UnmarshalJSON recursion.
type item Item

// UnmarshalJSON flattens the optional itemData envelope some payload
// variants wrap each item in.
func (i *Item) UnmarshalJSON(data []byte) error {
	var probe struct {
		ItemData    json.RawMessage `json:"itemData"`
		InventoryID string          `json:"inventoryId"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	payload := data
	if len(probe.ItemData) > 0 && string(probe.ItemData) != "null" {
		payload = probe.ItemData
	}

	var raw item
	if err := json.Unmarshal(payload, &raw); err != nil {
		return err
	}
	*i = Item(raw)
	if i.InventoryID == "" {
		i.InventoryID = probe.InventoryID
	}
	return nil
}

// Mods returns the modifier strings for the given group.
func (i *Item) Mods(group ModGroup) []string {
	switch group {
	case GroupEnchant:
		return i.EnchantMods
	case GroupImplicit:
		return i.ImplicitMods
	case GroupFractured:
		return i.FracturedMods
	case GroupExplicit:
		return i.ExplicitMods
	case GroupCrafted:
		return i.CraftedMods
	}
	return nil
}

// DisplayName returns the best human-readable name for the item.
func (i *Item) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.TypeLine != "" {
		return i.TypeLine
	}
	return i.BaseType
}

// IsUnique reports whether the rarity tier denotes a unique item.
func (i *Item) IsUnique() bool {
	return i.FrameType == FrameUnique
}

// equipmentSlots are the inventory slots that carry local modifier
// variants.
var equipmentSlots = map[string]bool{
	"Helm":       true,
	"BodyArmour": true,
	"Gloves":     true,
	"Boots":      true,
	"Weapon":     true,
	"Weapon2":    true,
	"Offhand":    true,
	"Offhand2":   true,
}

// IsEquipment reports whether the item is armour or a weapon, i.e. whether
// item-intrinsic ("local") modifier interpretations can apply to it.
func (i *Item) IsEquipment() bool {
	if strings.Contains(i.Category, "armour") || strings.Contains(i.Category, "weapon") {
		return true
	}
	if equipmentSlots[i.InventoryID] {
		return true
	}
	return i.Armour != nil || i.Evasion != nil || i.EnergyShield != nil
}
