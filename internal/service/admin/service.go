package admin

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/domain"
	"github.com/seu-repo/hurliman-assist/internal/service/analytics"
)

// CatalogStats summarizes the loaded answer catalog for operators.
type CatalogStats struct {
	Entries      int      `json:"entries"`
	Tags         []string `json:"tags"`
	DefaultAudio string   `json:"default_audio"`
}

// Service exposes operator views over the catalog and query counters.
type Service struct {
	catalog   *domain.Catalog
	analytics *analytics.Service
	log       *zap.Logger
}

// NewService creates a new admin service
func NewService(cat *domain.Catalog, analyticsSvc *analytics.Service, log *zap.Logger) *Service {
	return &Service{
		catalog:   cat,
		analytics: analyticsSvc,
		log:       log,
	}
}

// CatalogStats returns a summary of the loaded catalog.
func (s *Service) CatalogStats() CatalogStats {
	return CatalogStats{
		Entries:      len(s.catalog.Entries),
		Tags:         s.catalog.Tags(),
		DefaultAudio: s.catalog.DefaultAudio,
	}
}

// QueryStats returns the current routed-query counters.
func (s *Service) QueryStats() analytics.Report {
	return s.analytics.Snapshot()
}

// ExportQueryStatsCSV renders the per-tag counters as CSV for offline
// analysis.
func (s *Service) ExportQueryStatsCSV() ([]byte, error) {
	report := s.analytics.Snapshot()

	tags := make([]string, 0, len(report.ByTag))
	for tag := range report.ByTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"tag", "count"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, tag := range tags {
		if err := w.Write([]string{tag, strconv.Itoa(report.ByTag[tag])}); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
