package trade

import (
	"net/url"
	"strings"
)

// knownLeagueSlugs maps slugs whose proper names title-casing cannot
// recover.
var knownLeagueSlugs = map[string]string{
	"vaal":             "Fate of the Vaal",
	"fate-of-the-vaal": "Fate of the Vaal",
}

// NormalizeLeague converts a URL-friendly league slug ("fate-of-the-vaal")
// to the proper league name the trade API expects. Already-proper names
// pass through title-cased.
func NormalizeLeague(slug string) string {
	if slug == "" {
		return "Standard"
	}
	if decoded, err := url.PathUnescape(slug); err == nil {
		slug = decoded
	}
	key := strings.ToLower(strings.ReplaceAll(slug, " ", "-"))
	if name, ok := knownLeagueSlugs[key]; ok {
		return name
	}

	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == ' '
	})
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
