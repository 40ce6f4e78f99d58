package router

import (
	"strings"
	"unicode/utf8"

	"github.com/seu-repo/hurliman-assist/internal/catalog"
	"github.com/seu-repo/hurliman-assist/internal/domain"
)

// Scoring constants are behavioral contract: changing any of them
// changes which entry wins ties in production catalogs.
const (
	substringBase   = 5
	overlapPerWord  = 3
	fullPhraseBonus = 1
)

// Match scores every catalog entry against the query and returns the
// highest-scoring one, or nil when no entry scores above zero. Ties
// resolve to the earliest entry in catalog order. Pure and
// deterministic: identical (catalog, query) pairs always yield the
// same entry.
func Match(cat *domain.Catalog, queryText string) *domain.CatalogEntry {
	query := catalog.Normalize(queryText)
	if query == "" {
		return nil
	}
	queryWords := wordSet(query)

	var best *domain.CatalogEntry
	bestScore := 0
	for i := range cat.Entries {
		entry := &cat.Entries[i]
		score := scoreEntry(entry, query, queryWords)
		if score > bestScore {
			best, bestScore = entry, score
		}
	}
	return best
}

// scoreEntry sums per-key bonuses: a contiguous substring hit is worth
// 5 plus the key length in runes, each overlapping word is worth 3,
// and a key whose every word appears in the query earns 1 more.
func scoreEntry(entry *domain.CatalogEntry, query string, queryWords map[string]struct{}) int {
	score := 0
	for _, key := range entry.NormalizedKeys {
		if key == "" {
			continue
		}
		if strings.Contains(query, key) {
			score += substringBase + utf8.RuneCountInString(key)
		}
		keyWords := wordSet(key)
		overlap := 0
		for w := range keyWords {
			if _, ok := queryWords[w]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			score += overlapPerWord * overlap
			if overlap == len(keyWords) {
				score += fullPhraseBonus
			}
		}
	}
	return score
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
