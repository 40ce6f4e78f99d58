package analytics

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/domain"
)

func TestRecordAggregatesByTagAndStage(t *testing.T) {
	svc := NewService(zap.NewNop())

	svc.Record(domain.MatchResult{Tag: "alarm", MatchedBy: domain.MatchedByRules})
	svc.Record(domain.MatchResult{Tag: "alarm", MatchedBy: domain.MatchedByClassifier})
	svc.Record(domain.MatchResult{Tag: "", MatchedBy: domain.MatchedByDefault})

	report := svc.Snapshot()
	if report.Total != 3 {
		t.Fatalf("Total = %d, want 3", report.Total)
	}
	if report.ByTag["alarm"] != 2 {
		t.Errorf("ByTag[alarm] = %d, want 2", report.ByTag["alarm"])
	}
	if _, ok := report.ByTag[""]; ok {
		t.Error("empty tag should not be counted in ByTag")
	}
	if report.ByStage[string(domain.MatchedByDefault)] != 1 {
		t.Errorf("ByStage[default] = %d, want 1", report.ByStage[string(domain.MatchedByDefault)])
	}
}

func TestHandleEventDecodesRoutedPayload(t *testing.T) {
	svc := NewService(zap.NewNop())

	payload, err := json.Marshal(domain.MatchResult{
		AudioRef:  "static/audio/alarm.mp3",
		Tag:       "alarm",
		MatchedBy: domain.MatchedByRules,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.HandleEvent(payload); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	report := svc.Snapshot()
	if report.ByTag["alarm"] != 1 {
		t.Errorf("ByTag[alarm] = %d, want 1", report.ByTag["alarm"])
	}
}

func TestHandleEventIgnoresMalformedPayload(t *testing.T) {
	svc := NewService(zap.NewNop())

	if err := svc.HandleEvent([]byte("not json")); err != nil {
		t.Fatalf("HandleEvent() error = %v, want nil", err)
	}
	if report := svc.Snapshot(); report.Total != 0 {
		t.Errorf("Total = %d, want 0", report.Total)
	}
}

func TestSnapshotReturnsCopies(t *testing.T) {
	svc := NewService(zap.NewNop())
	svc.Record(domain.MatchResult{Tag: "alarm", MatchedBy: domain.MatchedByRules})

	report := svc.Snapshot()
	report.ByTag["alarm"] = 99

	if fresh := svc.Snapshot(); fresh.ByTag["alarm"] != 1 {
		t.Errorf("internal counter mutated through snapshot: %d", fresh.ByTag["alarm"])
	}
}
