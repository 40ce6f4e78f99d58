package admin

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/domain"
	"github.com/seu-repo/hurliman-assist/internal/service/analytics"
)

func newTestService() (*Service, *analytics.Service) {
	cat := &domain.Catalog{
		Entries: []domain.CatalogEntry{
			{AudioRef: "static/audio/alarm.mp3", Tag: "alarm", Keys: []string{"fire alarm"}},
			{AudioRef: "static/audio/greeting.mp3", Tag: "greeting", Keys: []string{"hello"}},
		},
		DefaultAudio: "static/audio/fallback.mp3",
	}
	analyticsSvc := analytics.NewService(zap.NewNop())
	return NewService(cat, analyticsSvc, zap.NewNop()), analyticsSvc
}

func TestCatalogStats(t *testing.T) {
	svc, _ := newTestService()

	stats := svc.CatalogStats()
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
	if len(stats.Tags) != 2 || stats.Tags[0] != "alarm" || stats.Tags[1] != "greeting" {
		t.Errorf("Tags = %v, want [alarm greeting]", stats.Tags)
	}
	if stats.DefaultAudio != "static/audio/fallback.mp3" {
		t.Errorf("DefaultAudio = %q", stats.DefaultAudio)
	}
}

func TestExportQueryStatsCSV(t *testing.T) {
	svc, analyticsSvc := newTestService()

	analyticsSvc.Record(domain.MatchResult{Tag: "greeting", MatchedBy: domain.MatchedByRules})
	analyticsSvc.Record(domain.MatchResult{Tag: "alarm", MatchedBy: domain.MatchedByRules})
	analyticsSvc.Record(domain.MatchResult{Tag: "alarm", MatchedBy: domain.MatchedByClassifier})

	data, err := svc.ExportQueryStatsCSV()
	if err != nil {
		t.Fatalf("ExportQueryStatsCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{"tag,count", "alarm,2", "greeting,1"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), lines)
	}
	for i, line := range want {
		if lines[i] != line {
			t.Errorf("line %d = %q, want %q", i, lines[i], line)
		}
	}
}
