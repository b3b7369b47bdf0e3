package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/estopassoli/vaal-trade-assistant/internal/models"
	"github.com/estopassoli/vaal-trade-assistant/internal/stats"
	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

// PriceCurrency denominates configured price bounds.
const PriceCurrency = "divine"

// Options are the user settings the synthesizer reads.
type Options struct {
	SimilarPercent int
	PriceMin       float64
	PriceMax       float64
	TradeStatus    string
}

// Synthesizer assembles trade queries from item records. Pure and
// reentrant; safe to share across items.
type Synthesizer struct {
	resolver *stats.Resolver
	opts     Options
	log      *logger.Logger
}

// NewSynthesizer creates a synthesizer using the given resolver and
// settings.
func NewSynthesizer(resolver *stats.Resolver, opts Options, log *logger.Logger) *Synthesizer {
	if opts.TradeStatus == "" {
		opts.TradeStatus = "available"
	}
	return &Synthesizer{resolver: resolver, opts: opts, log: log}
}

// Synthesize builds one search query for the item in the given mode.
// Returns false when the item has no searchable anchor (neither a name
// nor a resolvable base type).
func (s *Synthesizer) Synthesize(item *models.Item, mode models.SearchMode) (*Query, bool) {
	name := stats.SanitizeForAPI(item.Name)
	typeLine := stats.SanitizeForAPI(item.TypeLine)
	baseType := stats.SanitizeForAPI(item.BaseType)
	anchorType := baseType
	if anchorType == "" {
		anchorType = typeLine
	}

	if mode == models.ModeBaseOnly {
		return s.synthesizeBaseOnly(item, anchorType)
	}

	q := s.newQuery()

	// Uniques anchor on exact name plus base; everything else anchors on
	// base type alone.
	switch {
	case item.IsUnique() && name != "":
		q.Query.Name = name
		if anchorType != "" {
			q.Query.Type = anchorType
		}
	case anchorType != "":
		q.Query.Type = anchorType
	default:
		s.log.Debug("Item has no searchable anchor", "item", item.DisplayName())
		return nil, false
	}

	// Uniques in similar mode are adequately identified by name alone.
	if !(item.IsUnique() && mode == models.ModeSimilar) {
		s.addStatFilters(q, item, mode)
	}

	if mode == models.ModeExact {
		s.addStructuralFilters(q, item)
	}

	s.addPriceFilter(q)
	q.Query.pruneEmpty()
	return q, true
}

// synthesizeBaseOnly emits a query for the bare base type: lowest rarity
// tier, minimum item level, no modifier processing.
func (s *Synthesizer) synthesizeBaseOnly(item *models.Item, anchorType string) (*Query, bool) {
	if anchorType == "" {
		return nil, false
	}

	q := s.newQuery()
	q.Query.Type = anchorType
	q.Query.filterGroup(GroupTypeFilters).Filters["rarity"] = Option{Option: "normal"}
	if item.ItemLevel > 0 {
		q.Query.filterGroup(GroupMiscFilters).Filters["ilvl"] = MinMax{Min: fptr(float64(item.ItemLevel))}
	}
	s.addPriceFilter(q)
	q.Query.pruneEmpty()
	return q, true
}

func (s *Synthesizer) newQuery() *Query {
	return &Query{
		Query: Body{Status: Option{Option: s.opts.TradeStatus}},
		Sort:  map[string]string{"price": "asc"},
	}
}

// addStatFilters resolves every modifier across all groups and turns the
// resolved ones into stat filters. Unresolved modifiers are logged and
// skipped; they never fail the item.
func (s *Synthesizer) addStatFilters(q *Query, item *models.Item, mode models.SearchMode) {
	multiplier := 1.0
	if mode == models.ModeSimilar {
		multiplier = float64(s.opts.SimilarPercent) / 100
	}

	andGroup := StatGroup{Type: StatGroupAnd}
	var countGroups []StatGroup
	isEquipment := item.IsEquipment()

	for _, group := range models.ModGroups {
		for _, mod := range item.Mods(group) {
			resolved, ok := s.resolver.Resolve(mod, group, isEquipment)
			if !ok {
				s.log.Debug("Modifier not resolved",
					"group", string(group),
					"mod", mod,
					"item", item.DisplayName())
				continue
			}

			value, usable := scaleValue(resolved.Value, multiplier)
			if resolved.Value != nil && *resolved.Value > 0 && !usable {
				// A threshold that rounds below 1 is not a meaningful
				// lower bound; drop the filter entirely.
				s.log.Debug("Scaled minimum below 1, dropping filter", "mod", mod)
				continue
			}

			if len(resolved.CanonicalIDs) > 1 {
				// Ambiguous mapping: require at least one of the ids.
				group := StatGroup{
					Type:  StatGroupCount,
					Value: &MinMax{Min: fptr(1)},
				}
				for _, id := range resolved.CanonicalIDs {
					group.Filters = append(group.Filters, StatFilter{ID: id, Value: value})
				}
				countGroups = append(countGroups, group)
			} else {
				andGroup.Filters = append(andGroup.Filters, StatFilter{
					ID:    resolved.CanonicalIDs[0],
					Value: value,
				})
			}
		}
	}

	if len(andGroup.Filters) > 0 {
		q.Query.Stats = append(q.Query.Stats, andGroup)
	}
	q.Query.Stats = append(q.Query.Stats, countGroups...)
}

// scaleValue applies the mode multiplier to an extracted value. Positive
// values become floored minimums (usable only when >= 1), negative values
// become ceiled maximums, and a missing or zero value yields a bare
// presence filter.
func scaleValue(value *float64, multiplier float64) (*MinMax, bool) {
	if value == nil || *value == 0 {
		return nil, true
	}
	if *value > 0 {
		min := math.Floor(*value * multiplier)
		if min < 1 {
			return nil, false
		}
		return &MinMax{Min: &min}, true
	}
	max := math.Ceil(*value * multiplier)
	return &MinMax{Max: &max}, true
}

var critPercent = regexp.MustCompile(`([\d.]+)%`)

// addStructuralFilters populates the exact-mode type/equipment/misc
// groups from the item's own attributes. Absent attributes are omitted,
// never defaulted.
func (s *Synthesizer) addStructuralFilters(q *Query, item *models.Item) {
	typeFilters := q.Query.filterGroup(GroupTypeFilters).Filters
	if item.ItemLevel > 0 {
		typeFilters["ilvl"] = MinMax{Min: fptr(float64(item.ItemLevel))}
	}
	if item.Quality > 0 {
		typeFilters["quality"] = MinMax{Min: fptr(float64(item.Quality))}
	}
	if rarity := item.FrameType.Rarity(); rarity != "" {
		typeFilters["rarity"] = Option{Option: rarity}
	}

	equipFilters := q.Query.filterGroup(GroupEquipmentFilters).Filters
	addDefence(equipFilters, "ar", item.Armour)
	addDefence(equipFilters, "ev", item.Evasion)
	addDefence(equipFilters, "es", item.EnergyShield)
	addDefence(equipFilters, "spirit", item.Spirit)
	addDefence(equipFilters, "block", item.Block)

	for _, prop := range item.Properties {
		propName := strings.ToLower(prop.Name)
		display := prop.DisplayValue()
		if display == "" {
			continue
		}
		if strings.Contains(propName, "attacks per second") {
			if aps, err := strconv.ParseFloat(display, 64); err == nil && aps > 0 {
				equipFilters["aps"] = MinMax{Min: fptr(math.Floor(aps*100) / 100)}
			}
		}
		if strings.Contains(propName, "critical") {
			if m := critPercent.FindStringSubmatch(display); m != nil {
				if crit, err := strconv.ParseFloat(m[1], 64); err == nil {
					equipFilters["crit"] = MinMax{Min: &crit}
				}
			}
		}
	}

	miscFilters := q.Query.filterGroup(GroupMiscFilters).Filters
	if item.DoubleCorrupted {
		miscFilters["twice_corrupted"] = Option{Option: "true"}
	}
	if item.Identified != nil {
		miscFilters["identified"] = Option{Option: strconv.FormatBool(*item.Identified)}
	}
	if item.Fractured {
		miscFilters["fractured_item"] = Option{Option: "true"}
	}
	if item.Sanctified {
		miscFilters["sanctified"] = Option{Option: "true"}
	}
	if item.Duplicated || item.Mirrored {
		miscFilters["mirrored"] = Option{Option: "true"}
	}
}

func addDefence(filters map[string]any, key string, value *int) {
	if value != nil && *value > 0 {
		filters[key] = MinMax{Min: fptr(float64(*value))}
	}
}

// addPriceFilter attaches the configured price bounds, independent of
// search mode.
func (s *Synthesizer) addPriceFilter(q *Query) {
	if s.opts.PriceMin <= 0 && s.opts.PriceMax <= 0 {
		return
	}
	price := Price{Option: PriceCurrency}
	if s.opts.PriceMin > 0 {
		price.Min = fptr(s.opts.PriceMin)
	}
	if s.opts.PriceMax > 0 {
		price.Max = fptr(s.opts.PriceMax)
	}
	q.Query.filterGroup(GroupTradeFilters).Filters["price"] = price
}
