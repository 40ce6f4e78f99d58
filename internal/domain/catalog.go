package domain

// MatchStage identifies which stage of the fallback chain produced a result.
type MatchStage string

const (
	MatchedByRules      MatchStage = "rules"
	MatchedByClassifier MatchStage = "classifier"
	MatchedByDefault    MatchStage = "default"
)

// CatalogEntry is one pre-recorded answer with its trigger phrases.
// NormalizedKeys is computed once at load time and never mutated afterwards,
// so entries are safe to share between concurrent lookups.
type CatalogEntry struct {
	AudioRef       string   `json:"audio"`
	Tag            string   `json:"tag"`
	Keys           []string `json:"keys"`
	NormalizedKeys []string `json:"-"`
}

// Catalog holds the full answer set. Entry order is source order and is
// the tie-break for equal match scores. Immutable after load.
type Catalog struct {
	Entries      []CatalogEntry
	DefaultAudio string
}

// Tags returns the tag set in catalog order, deduplicated. This is the
// closed label space handed to the classifier fallback.
func (c *Catalog) Tags() []string {
	seen := make(map[string]struct{}, len(c.Entries))
	tags := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		if _, ok := seen[e.Tag]; ok {
			continue
		}
		seen[e.Tag] = struct{}{}
		tags = append(tags, e.Tag)
	}
	return tags
}

// EntryByTag scans for the entry carrying the given tag.
func (c *Catalog) EntryByTag(tag string) *CatalogEntry {
	for i := range c.Entries {
		if c.Entries[i].Tag == tag {
			return &c.Entries[i]
		}
	}
	return nil
}

// MatchResult is produced fresh per query and never persisted.
type MatchResult struct {
	AudioRef  string     `json:"audio_ref"`
	Tag       string     `json:"tag"`
	MatchedBy MatchStage `json:"matched_by"`
}
