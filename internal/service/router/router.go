package router

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/adapter/queue"
	"github.com/seu-repo/hurliman-assist/internal/catalog"
	"github.com/seu-repo/hurliman-assist/internal/domain"
	"github.com/seu-repo/hurliman-assist/internal/observability/telemetry"
	"github.com/seu-repo/hurliman-assist/internal/ports"
)

// Known spellings and transliterations of the assistant's name. Only a
// single leading occurrence is stripped, and only when followed by a
// separator.
var wakeWords = []string{"хурлиман", "hurli", "hurliman", "khurliman", "qurliman"}

const routedEventsSubject = "assistant.routed"

const defaultClassifierTimeout = 30 * time.Second

// Service orchestrates the fallback chain: rules, then the optional
// classifier, then the catalog default. It holds no mutable state; the
// catalog is immutable after load, so any number of Route calls may run
// concurrently without synchronization.
type Service struct {
	catalog           *domain.Catalog
	classifier        ports.Classifier
	events            queue.MessageQueue
	classifierTimeout time.Duration
	log               *zap.Logger
}

// NewService builds the router. classifier and events may be nil: with
// no classifier the chain is rules then default, with no event queue
// routed-query events are simply not published.
func NewService(
	cat *domain.Catalog,
	classifier ports.Classifier,
	events queue.MessageQueue,
	classifierTimeout time.Duration,
	log *zap.Logger,
) *Service {
	if classifierTimeout <= 0 {
		classifierTimeout = defaultClassifierTimeout
	}
	return &Service{
		catalog:           cat,
		classifier:        classifier,
		events:            events,
		classifierTimeout: classifierTimeout,
		log:               log,
	}
}

// Route resolves a raw query to an audio answer. It never fails: the
// worst case is the default answer. Classifier errors are absorbed
// here, visibly, rather than propagated.
func (s *Service) Route(ctx context.Context, queryText string) domain.MatchResult {
	start := time.Now()

	query := stripWakeWord(catalog.Normalize(queryText))

	result, ok := s.matchByRules(query)
	if !ok {
		result, ok = s.matchByClassifier(ctx, query)
	}
	if !ok {
		result = domain.MatchResult{
			AudioRef:  s.catalog.DefaultAudio,
			Tag:       "default",
			MatchedBy: domain.MatchedByDefault,
		}
	}

	telemetry.QueriesRoutedTotal.WithLabelValues(string(result.MatchedBy)).Inc()
	telemetry.RouteLatency.Observe(time.Since(start).Seconds())

	s.log.Debug("Query routed",
		zap.String("tag", result.Tag),
		zap.String("matched_by", string(result.MatchedBy)),
	)
	s.publishRouted(result)

	return result
}

func (s *Service) matchByRules(query string) (domain.MatchResult, bool) {
	entry := Match(s.catalog, query)
	if entry == nil {
		return domain.MatchResult{}, false
	}
	return domain.MatchResult{
		AudioRef:  entry.AudioRef,
		Tag:       entry.Tag,
		MatchedBy: domain.MatchedByRules,
	}, true
}

// matchByClassifier asks the external classifier for a tag. Every
// failure mode (transport error, timeout, sentinel, unknown tag) comes
// back as a miss so the chain can continue to the default answer.
func (s *Service) matchByClassifier(ctx context.Context, query string) (domain.MatchResult, bool) {
	if s.classifier == nil || query == "" {
		return domain.MatchResult{}, false
	}
	tags := s.catalog.Tags()
	if len(tags) == 0 {
		return domain.MatchResult{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.classifierTimeout)
	defer cancel()

	tag, err := s.classifier.Classify(ctx, query, tags)
	if err != nil {
		telemetry.ClassifierFailuresTotal.Inc()
		s.log.Warn("Classifier fallback failed, treating as no match", zap.Error(err))
		return domain.MatchResult{}, false
	}
	if tag == "" {
		return domain.MatchResult{}, false
	}

	entry := s.catalog.EntryByTag(tag)
	if entry == nil {
		telemetry.ClassifierFailuresTotal.Inc()
		s.log.Warn("Classifier returned a tag missing from the catalog", zap.String("tag", tag))
		return domain.MatchResult{}, false
	}
	return domain.MatchResult{
		AudioRef:  entry.AudioRef,
		Tag:       entry.Tag,
		MatchedBy: domain.MatchedByClassifier,
	}, true
}

func (s *Service) publishRouted(result domain.MatchResult) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(routedEventsSubject, result); err != nil {
		s.log.Warn("Failed to publish routed-query event", zap.Error(err))
	}
}

// stripWakeWord removes a single leading wake-word token from an
// already-normalized query. Normalization has case-folded the text, so
// the comparison is case-insensitive by construction.
func stripWakeWord(query string) string {
	for _, w := range wakeWords {
		if strings.HasPrefix(query, w+" ") {
			return strings.TrimSpace(query[len(w)+1:])
		}
	}
	return query
}
