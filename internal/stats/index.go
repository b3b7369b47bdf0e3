package stats

import (
	"regexp"
	"strings"

	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

// localSuffix marks the item-intrinsic variant buckets in the dataset.
const localSuffix = "local"

// MatcherEntry is one candidate matcher from the stat dataset: a regex
// pattern plus the canonical trade stat ids it maps to, keyed by modifier
// group name. Ids may carry a "|template" suffix with a per-locale
// display template.
type MatcherEntry struct {
	Matcher  string              `json:"matcher"`
	Result   map[string][]string `json:"res"`
	Template string              `json:"template,omitempty"`

	re *regexp.Regexp
}

// Matches reports whether the entry's pattern matches the normalized
// modifier text.
func (e *MatcherEntry) Matches(normalized string) bool {
	return e.re != nil && e.re.MatchString(normalized)
}

// IDsFor returns the canonical stat ids for a modifier group, stripped of
// template suffixes and validated to look like trade stat ids. An empty
// result means the entry does not apply to that group.
func (e *MatcherEntry) IDsFor(group string) []string {
	raw := e.Result[group]
	if len(raw) == 0 {
		return nil
	}
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		if i := strings.IndexByte(id, '|'); i >= 0 {
			id = id[:i]
		}
		id = strings.TrimSpace(id)
		if !strings.Contains(id, ".stat_") {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// RawDataset is the flat on-disk form of the matcher dataset: entries
// grouped by suffix key, with item-intrinsic variants stored under
// key + "local".
type RawDataset map[string][]*MatcherEntry

// Index is the precomputed suffix-key lookup over the matcher dataset.
// Built once at load time and read-only thereafter, so it is safe to
// share across concurrent resolutions.
type Index struct {
	global map[string][]*MatcherEntry
	local  map[string][]*MatcherEntry
}

// BuildIndex constructs the global and local suffix-key mappings from a
// raw dataset. Entries whose pattern fails to compile are dropped with a
// warning; within a bucket the stored order is preserved, since the
// first matching candidate wins at resolution time.
func BuildIndex(raw RawDataset, log *logger.Logger) *Index {
	idx := &Index{
		global: make(map[string][]*MatcherEntry, len(raw)),
		local:  make(map[string][]*MatcherEntry),
	}

	for key, entries := range raw {
		kept := make([]*MatcherEntry, 0, len(entries))
		for _, entry := range entries {
			re, err := regexp.Compile(entry.Matcher)
			if err != nil {
				log.Warn("Skipping matcher with invalid pattern",
					"suffix_key", key,
					"pattern", entry.Matcher)
				continue
			}
			entry.re = re
			kept = append(kept, entry)
		}
		if len(kept) == 0 {
			continue
		}
		if base, ok := strings.CutSuffix(key, localSuffix); ok && base != "" {
			idx.local[base] = kept
		} else {
			idx.global[key] = kept
		}
	}

	log.Info("Built stats index",
		"global_buckets", len(idx.global),
		"local_buckets", len(idx.local))
	return idx
}

// Lookup returns the candidate matchers bucketed under the suffix key, in
// stored order. Exact key match only; a missing key yields nil.
func (idx *Index) Lookup(suffixKey string, wantLocal bool) []*MatcherEntry {
	if wantLocal {
		return idx.local[suffixKey]
	}
	return idx.global[suffixKey]
}

// tokenRun matches a leading sign/digit/percent run within a token. The
// same stripping is applied when the dataset's suffix keys are generated,
// so the two derivations must never diverge.
var tokenRun = regexp.MustCompile(`(([+-]?[\d.]+%?)|(#%)|(#))`)

// stripTokenRun removes the first numeric/placeholder run from a token.
func stripTokenRun(token string) string {
	loc := tokenRun.FindStringIndex(token)
	if loc == nil {
		return token
	}
	return token[:loc[0]] + token[loc[1]:]
}

// SuffixKey derives the lookup key for a normalized modifier string: the
// last two whitespace-delimited tokens (or the single remaining token)
// with numeric runs stripped, concatenated and lower-cased.
func SuffixKey(normalized string) string {
	words := strings.Fields(normalized)
	if len(words) == 0 {
		return ""
	}
	var key string
	if len(words) >= 2 {
		key = stripTokenRun(words[len(words)-2]) + stripTokenRun(words[len(words)-1])
	} else {
		key = stripTokenRun(words[0])
	}
	return strings.ToLower(key)
}
