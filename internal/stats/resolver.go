package stats

import (
	"regexp"

	"github.com/estopassoli/vaal-trade-assistant/internal/models"
	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

// localModPatterns are the modifier shapes known to have item-intrinsic
// variants on equipment. Only these trigger a local-index lookup.
var localModPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)increased armour`),
	regexp.MustCompile(`(?i)increased evasion`),
	regexp.MustCompile(`(?i)increased energy shield`),
	regexp.MustCompile(`(?i)to armour`),
	regexp.MustCompile(`(?i)to evasion`),
	regexp.MustCompile(`(?i)to energy shield`),
	regexp.MustCompile(`(?i)increased physical damage`),
	regexp.MustCompile(`(?i)increased attack speed`),
	regexp.MustCompile(`(?i)increased critical`),
	regexp.MustCompile(`(?i)adds.*damage`),
}

func hasLocalVariant(normalized string) bool {
	for _, pattern := range localModPatterns {
		if pattern.MatchString(normalized) {
			return true
		}
	}
	return false
}

// Resolver maps raw modifier strings to canonical trade stat filters
// using a shared read-only index.
type Resolver struct {
	index *Index
	log   *logger.Logger
}

// NewResolver creates a resolver over the given index.
func NewResolver(index *Index, log *logger.Logger) *Resolver {
	return &Resolver{index: index, log: log}
}

// Resolve normalizes a modifier string, finds its canonical stat ids for
// the given modifier group, and extracts its numeric value. Equipment
// items try the local-variant bucket first for modifiers known to have
// one. Returns false when no matcher applies; the caller logs and skips
// the modifier, it is never fatal.
func (r *Resolver) Resolve(rawText string, group models.ModGroup, isEquipment bool) (models.ResolvedModifier, bool) {
	normalized := Normalize(rawText)
	key := SuffixKey(normalized)
	if key == "" {
		return models.ResolvedModifier{}, false
	}

	var entry *MatcherEntry
	usedLocal := false

	if isEquipment && hasLocalVariant(normalized) {
		if entry = r.matchBucket(r.index.Lookup(key, true), normalized); entry != nil {
			usedLocal = true
			r.log.Debug("Resolved local modifier variant", "mod", normalized)
		}
	}
	if entry == nil {
		entry = r.matchBucket(r.index.Lookup(key, false), normalized)
	}
	if entry == nil {
		return models.ResolvedModifier{}, false
	}

	// Resolution is type-scoped: the same pattern may map ids for other
	// groups only.
	ids := entry.IDsFor(string(group))
	if len(ids) == 0 {
		r.log.Debug("Matcher has no ids for modifier group",
			"mod", normalized,
			"group", string(group))
		return models.ResolvedModifier{}, false
	}

	resolved := models.ResolvedModifier{
		SourceText:   normalized,
		CanonicalIDs: ids,
		UsedLocal:    usedLocal,
	}
	if v, ok := ExtractValue(normalized); ok {
		resolved.Value = &v
	}
	return resolved, true
}

// matchBucket tries each candidate in stored order and returns the first
// whose pattern matches.
func (r *Resolver) matchBucket(bucket []*MatcherEntry, normalized string) *MatcherEntry {
	for _, entry := range bucket {
		if entry.Matches(normalized) {
			return entry
		}
	}
	return nil
}
