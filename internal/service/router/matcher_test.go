package router

import (
	"testing"

	"github.com/seu-repo/hurliman-assist/internal/catalog"
	"github.com/seu-repo/hurliman-assist/internal/domain"
)

func newEntry(audio, tag string, keys ...string) domain.CatalogEntry {
	normalized := make([]string, len(keys))
	for i, k := range keys {
		normalized[i] = catalog.Normalize(k)
	}
	return domain.CatalogEntry{
		AudioRef:       audio,
		Tag:            tag,
		Keys:           keys,
		NormalizedKeys: normalized,
	}
}

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Entries: []domain.CatalogEntry{
			newEntry("a.mp3", "alarm", "fire alarm", "emergency"),
			newEntry("b.mp3", "greeting", "hello", "hi there"),
		},
		DefaultAudio: "d.mp3",
	}
}

func TestMatch_SubstringHit(t *testing.T) {
	cat := testCatalog()

	entry := Match(cat, "hello!!")
	if entry == nil {
		t.Fatal("expected a match for a query containing a key as substring")
	}
	if entry.Tag != "greeting" {
		t.Errorf("expected greeting, got %s", entry.Tag)
	}
}

func TestMatch_CaseAndWhitespaceInsensitive(t *testing.T) {
	cat := testCatalog()

	entry := Match(cat, "  Fire   ALARM ")
	if entry == nil || entry.Tag != "alarm" {
		t.Fatalf("expected alarm match for cased/spaced variant, got %+v", entry)
	}
}

func TestMatch_EmptyQuery(t *testing.T) {
	cat := testCatalog()

	for _, q := range []string{"", "   ", "\t\n"} {
		if entry := Match(cat, q); entry != nil {
			t.Errorf("Match(%q) = %v, want nil", q, entry.Tag)
		}
	}
}

func TestMatch_NoOverlapReturnsNil(t *testing.T) {
	cat := testCatalog()

	if entry := Match(cat, "xyz unrelated"); entry != nil {
		t.Errorf("expected no match, got %s", entry.Tag)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	cat := testCatalog()

	first := Match(cat, "there is a fire alarm now")
	second := Match(cat, "there is a fire alarm now")
	if first != second {
		t.Error("identical (catalog, query) pairs must resolve to the identical entry")
	}
}

func TestMatch_SubstringDominatesWordOverlap(t *testing.T) {
	cat := &domain.Catalog{
		Entries: []domain.CatalogEntry{
			newEntry("truck.mp3", "truck", "fire truck"),
			newEntry("alarm.mp3", "alarm", "fire alarm"),
		},
		DefaultAudio: "d.mp3",
	}

	query := "there is a fire alarm now"
	queryWords := wordSet(catalog.Normalize(query))

	// "fire alarm" occurs as a substring (5 + 10 runes) and both words
	// overlap (3*2 + 1 full phrase): 22 total.
	alarmScore := scoreEntry(&cat.Entries[1], catalog.Normalize(query), queryWords)
	if alarmScore != 22 {
		t.Errorf("alarm score = %d, want 22", alarmScore)
	}

	// "fire truck" shares only one word: 3.
	truckScore := scoreEntry(&cat.Entries[0], catalog.Normalize(query), queryWords)
	if truckScore != 3 {
		t.Errorf("truck score = %d, want 3", truckScore)
	}

	if entry := Match(cat, query); entry == nil || entry.Tag != "alarm" {
		t.Fatalf("expected alarm to win, got %+v", entry)
	}
}

func TestMatch_TieKeepsFirstEntry(t *testing.T) {
	cat := &domain.Catalog{
		Entries: []domain.CatalogEntry{
			newEntry("first.mp3", "first", "same phrase"),
			newEntry("second.mp3", "second", "same phrase"),
		},
		DefaultAudio: "d.mp3",
	}

	entry := Match(cat, "say the same phrase please")
	if entry == nil || entry.Tag != "first" {
		t.Fatalf("equal scores must keep the earliest entry, got %+v", entry)
	}
}

func TestMatch_SkipsEmptyKeys(t *testing.T) {
	cat := &domain.Catalog{
		Entries: []domain.CatalogEntry{
			{AudioRef: "x.mp3", Tag: "blank", NormalizedKeys: []string{""}},
		},
		DefaultAudio: "d.mp3",
	}

	// An empty key is a substring of everything; it must never score.
	if entry := Match(cat, "anything at all"); entry != nil {
		t.Errorf("entry with only empty keys matched: %s", entry.Tag)
	}
}

func TestMatch_FullPhraseWordBonusWithoutSubstring(t *testing.T) {
	cat := &domain.Catalog{
		Entries: []domain.CatalogEntry{
			newEntry("x.mp3", "scattered", "alarm fire"),
		},
		DefaultAudio: "d.mp3",
	}

	query := catalog.Normalize("fire in the alarm room")
	// Not contiguous, but both words present: 3*2 + 1.
	score := scoreEntry(&cat.Entries[0], query, wordSet(query))
	if score != 7 {
		t.Errorf("score = %d, want 7", score)
	}
}
