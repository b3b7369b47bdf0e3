package query

import "encoding/json"

// Filter group names used by the trade API.
const (
	GroupTypeFilters      = "type_filters"
	GroupEquipmentFilters = "equipment_filters"
	GroupMiscFilters      = "misc_filters"
	GroupTradeFilters     = "trade_filters"
)

// Stat group types.
const (
	StatGroupAnd   = "and"
	StatGroupCount = "count"
)

// MinMax bounds a numeric filter. Nil sides are omitted from the wire
// format rather than sent as zero.
type MinMax struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Option is a fixed-choice filter value, e.g. {"option": "rare"}.
type Option struct {
	Option string `json:"option"`
}

// Price is the trade_filters price entry: currency option plus optional
// bounds.
type Price struct {
	Option string   `json:"option"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// StatFilter requires one canonical stat id, optionally bounded.
type StatFilter struct {
	ID    string  `json:"id"`
	Value *MinMax `json:"value,omitempty"`
}

// StatGroup is one entry in the stats list: an "and" group whose filters
// must all match, or a "count" group requiring Value.Min of its filters
// to match.
type StatGroup struct {
	Type    string       `json:"type"`
	Filters []StatFilter `json:"filters"`
	Value   *MinMax      `json:"value,omitempty"`
}

// FilterGroup is a named structural filter block (type_filters and
// friends). Filters values are MinMax, Option or Price.
type FilterGroup struct {
	Disabled bool           `json:"disabled"`
	Filters  map[string]any `json:"filters"`
}

// Body is the inner query object.
type Body struct {
	Status  Option                  `json:"status"`
	Name    string                  `json:"name,omitempty"`
	Type    string                  `json:"type,omitempty"`
	Stats   []StatGroup             `json:"stats,omitempty"`
	Filters map[string]*FilterGroup `json:"filters,omitempty"`
}

// Query is a full trade search request, immutable once serialized.
type Query struct {
	Query Body              `json:"query"`
	Sort  map[string]string `json:"sort"`
}

// Marshal serializes the query for submission.
func (q *Query) Marshal() ([]byte, error) {
	return json.Marshal(q)
}

// filterGroup returns the named group, creating it on first use.
func (b *Body) filterGroup(name string) *FilterGroup {
	if b.Filters == nil {
		b.Filters = make(map[string]*FilterGroup)
	}
	g, ok := b.Filters[name]
	if !ok {
		g = &FilterGroup{Filters: make(map[string]any)}
		b.Filters[name] = g
	}
	return g
}

// pruneEmpty drops filter groups that collected nothing.
func (b *Body) pruneEmpty() {
	for name, g := range b.Filters {
		if len(g.Filters) == 0 {
			delete(b.Filters, name)
		}
	}
	if len(b.Filters) == 0 {
		b.Filters = nil
	}
}

func fptr(v float64) *float64 { return &v }
