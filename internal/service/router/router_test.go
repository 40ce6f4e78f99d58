package router

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/domain"
	"github.com/seu-repo/hurliman-assist/internal/mocks"
)

// fakeClassifier records invocations and returns a canned answer.
type fakeClassifier struct {
	tag   string
	err   error
	calls int
}

func (f *fakeClassifier) Classify(ctx context.Context, queryText string, tags []string) (string, error) {
	f.calls++
	return f.tag, f.err
}

func newTestService(cat *domain.Catalog, classifier *fakeClassifier) *Service {
	if classifier == nil {
		return NewService(cat, nil, nil, time.Second, zap.NewNop())
	}
	return NewService(cat, classifier, nil, time.Second, zap.NewNop())
}

func TestRoute_RulesStage(t *testing.T) {
	classifier := &fakeClassifier{tag: "alarm"}
	svc := newTestService(testCatalog(), classifier)

	result := svc.Route(context.Background(), "hello!!")
	if result.MatchedBy != domain.MatchedByRules {
		t.Fatalf("matched_by = %s, want rules", result.MatchedBy)
	}
	if result.AudioRef != "b.mp3" || result.Tag != "greeting" {
		t.Errorf("unexpected result: %+v", result)
	}
	if classifier.calls != 0 {
		t.Error("classifier must not be invoked when rules match")
	}
}

func TestRoute_WakeWordStripping(t *testing.T) {
	svc := newTestService(testCatalog(), nil)

	withWake := svc.Route(context.Background(), "Hurliman fire alarm")
	without := svc.Route(context.Background(), "fire alarm")
	if withWake != without {
		t.Errorf("wake-word query routed differently: %+v vs %+v", withWake, without)
	}
	if withWake.Tag != "alarm" {
		t.Errorf("expected alarm, got %s", withWake.Tag)
	}

	// Cyrillic spelling, mixed case.
	cyr := svc.Route(context.Background(), "Хурлиман fire alarm")
	if cyr != without {
		t.Errorf("cyrillic wake word not stripped: %+v", cyr)
	}
}

func TestRoute_OnlyLeadingWakeWordStripped(t *testing.T) {
	cat := &domain.Catalog{
		Entries: []domain.CatalogEntry{
			newEntry("h.mp3", "who", "hurliman"),
		},
		DefaultAudio: "d.mp3",
	}
	svc := newTestService(cat, nil)

	// A mid-query occurrence is plain text, not a wake word.
	result := svc.Route(context.Background(), "who is hurliman")
	if result.Tag != "who" {
		t.Errorf("mid-query wake word must still match, got %+v", result)
	}
}

func TestRoute_DefaultOnEmptyCatalog(t *testing.T) {
	cat := &domain.Catalog{DefaultAudio: "d.mp3"}
	svc := newTestService(cat, nil)

	for _, q := range []string{"", "anything", "Hurliman do something"} {
		result := svc.Route(context.Background(), q)
		if result.MatchedBy != domain.MatchedByDefault || result.AudioRef != "d.mp3" {
			t.Errorf("Route(%q) = %+v, want default d.mp3", q, result)
		}
	}
}

func TestRoute_EmptyQueryNeverErrors(t *testing.T) {
	svc := newTestService(testCatalog(), nil)

	result := svc.Route(context.Background(), "   \t ")
	if result.MatchedBy != domain.MatchedByDefault {
		t.Errorf("empty query should fall through to default, got %s", result.MatchedBy)
	}
	if result.AudioRef != "d.mp3" {
		t.Errorf("expected default audio, got %s", result.AudioRef)
	}
}

func TestRoute_ClassifierStage(t *testing.T) {
	classifier := &fakeClassifier{tag: "alarm"}
	svc := newTestService(testCatalog(), classifier)

	result := svc.Route(context.Background(), "something is burning")
	if result.MatchedBy != domain.MatchedByClassifier {
		t.Fatalf("matched_by = %s, want classifier", result.MatchedBy)
	}
	if result.AudioRef != "a.mp3" || result.Tag != "alarm" {
		t.Errorf("unexpected result: %+v", result)
	}
	if classifier.calls != 1 {
		t.Errorf("classifier calls = %d, want 1", classifier.calls)
	}
}

func TestRoute_ClassifierFailsOpen(t *testing.T) {
	cases := []struct {
		name       string
		classifier *fakeClassifier
	}{
		{"transport error", &fakeClassifier{err: errors.New("connection refused")}},
		{"timeout", &fakeClassifier{err: context.DeadlineExceeded}},
		{"sentinel none", &fakeClassifier{tag: ""}},
		{"unknown tag", &fakeClassifier{tag: "not-in-catalog"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(testCatalog(), tc.classifier)
			result := svc.Route(context.Background(), "xyz unrelated")
			if result.MatchedBy != domain.MatchedByDefault {
				t.Errorf("matched_by = %s, want default", result.MatchedBy)
			}
			if result.AudioRef != "d.mp3" {
				t.Errorf("audio = %s, want d.mp3", result.AudioRef)
			}
		})
	}
}

func TestRoute_NoClassifierConfigured(t *testing.T) {
	svc := NewService(testCatalog(), nil, nil, time.Second, zap.NewNop())

	result := svc.Route(context.Background(), "xyz unrelated")
	if result.MatchedBy != domain.MatchedByDefault || result.AudioRef != "d.mp3" {
		t.Errorf("chain without classifier should be rules then default, got %+v", result)
	}
}

func TestStripWakeWord(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hurliman play the alarm", "play the alarm"},
		{"khurliman salem", "salem"},
		{"хурлиман не работает свет", "не работает свет"},
		{"hurliman", "hurliman"}, // no separator, nothing stripped
		{"hurlimanx test", "hurlimanx test"},
		{"play the alarm", "play the alarm"},
		{"hurliman hurliman test", "hurliman test"}, // only one occurrence
	}

	for _, tc := range cases {
		if got := stripWakeWord(tc.in); got != tc.want {
			t.Errorf("stripWakeWord(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoute_PublishesRoutedEvent(t *testing.T) {
	mq := mocks.NewMockMessageQueue()
	svc := NewService(testCatalog(), nil, mq, time.Second, zap.NewNop())

	svc.Route(context.Background(), "fire alarm")

	msgs := mq.PublishedMessages["assistant.routed"]
	if len(msgs) != 1 {
		t.Fatalf("published %d events, want 1", len(msgs))
	}

	var result domain.MatchResult
	if err := json.Unmarshal(msgs[0], &result); err != nil {
		t.Fatalf("event payload is not valid JSON: %v", err)
	}
	if result.Tag != "alarm" || result.MatchedBy != domain.MatchedByRules {
		t.Errorf("unexpected event payload: %+v", result)
	}
}
