package models

// SearchMode selects how strictly a synthesized query should match the
// source item.
type SearchMode int

const (
	// ModeSimilar scales numeric thresholds by the configured percentage.
	ModeSimilar SearchMode = iota
	// ModeExact requires full values plus structural filters.
	ModeExact
	// ModeBaseOnly ignores modifiers and searches by base type alone.
	ModeBaseOnly
)

func (m SearchMode) String() string {
	switch m {
	case ModeSimilar:
		return "similar"
	case ModeExact:
		return "exact"
	case ModeBaseOnly:
		return "base"
	}
	return "unknown"
}

// ResolvedModifier is the outcome of resolving one modifier string
// against the stats index. Transient; never persisted.
type ResolvedModifier struct {
	SourceText   string
	CanonicalIDs []string
	Value        *float64
	UsedLocal    bool
}
