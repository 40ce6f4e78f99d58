package analytics

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/domain"
)

// Report is a point-in-time aggregation of routed queries.
type Report struct {
	Since     time.Time      `json:"since"`
	Total     int            `json:"total"`
	ByTag     map[string]int `json:"by_tag"`
	ByStage   map[string]int `json:"by_stage"`
	Timestamp time.Time      `json:"timestamp"`
}

// Service aggregates routed-query events into per-tag and per-stage
// counters. Counters are in-memory only; restart resets them, which is
// fine for an operator dashboard.
type Service struct {
	mu      sync.RWMutex
	since   time.Time
	total   int
	byTag   map[string]int
	byStage map[string]int
	log     *zap.Logger
}

func NewService(log *zap.Logger) *Service {
	return &Service{
		since:   time.Now(),
		byTag:   make(map[string]int),
		byStage: make(map[string]int),
		log:     log,
	}
}

// Record counts one routed query.
func (s *Service) Record(result domain.MatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if result.Tag != "" {
		s.byTag[result.Tag]++
	}
	s.byStage[string(result.MatchedBy)]++
}

// HandleEvent decodes a routed-query event and records it. The
// signature matches the message queue subscription handler.
func (s *Service) HandleEvent(data []byte) error {
	var result domain.MatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.log.Warn("Ignoring malformed routed event", zap.Error(err))
		return nil
	}
	s.Record(result)
	return nil
}

// Snapshot returns a copy of the current counters.
func (s *Service) Snapshot() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byTag := make(map[string]int, len(s.byTag))
	for k, v := range s.byTag {
		byTag[k] = v
	}
	byStage := make(map[string]int, len(s.byStage))
	for k, v := range s.byStage {
		byStage[k] = v
	}

	return Report{
		Since:     s.since,
		Total:     s.total,
		ByTag:     byTag,
		ByStage:   byStage,
		Timestamp: time.Now(),
	}
}
