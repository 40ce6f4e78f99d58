// Package speech turns raw uploaded audio into text.
package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/observability/telemetry"
	"github.com/seu-repo/hurliman-assist/internal/ports"
)

var ErrEmptyUpload = errors.New("empty audio upload")

const transcriptTTL = 24 * time.Hour

// Service normalizes an upload through the converter, runs it through
// the recognizer, and memoizes transcripts by content hash so repeated
// uploads of the same clip skip the engine.
type Service struct {
	converter   ports.AudioConverter
	transcriber ports.Transcriber
	cache       ports.Cache
	log         *zap.Logger
}

func NewService(converter ports.AudioConverter, transcriber ports.Transcriber, cache ports.Cache, log *zap.Logger) *Service {
	return &Service{
		converter:   converter,
		transcriber: transcriber,
		cache:       cache,
		log:         log,
	}
}

func (s *Service) TranscribeUpload(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}

	key := transcriptKey(data)
	if s.cache != nil {
		if text, err := s.cache.Get(ctx, key); err == nil {
			telemetry.TranscriptionsTotal.WithLabelValues("cache_hit").Inc()
			return text, nil
		}
	}

	start := time.Now()

	pcm, err := s.converter.ToPCM16Mono(ctx, data, s.transcriber.SampleRate())
	if err != nil {
		telemetry.TranscriptionsTotal.WithLabelValues("invalid_input").Inc()
		return "", err
	}

	text, err := s.transcriber.Transcribe(ctx, pcm)
	if err != nil {
		telemetry.TranscriptionsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("transcribe: %w", err)
	}

	telemetry.TranscriptionsTotal.WithLabelValues("ok").Inc()
	telemetry.TranscriptionLatency.Observe(time.Since(start).Seconds())

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text, transcriptTTL); err != nil {
			s.log.Warn("Failed to cache transcript", zap.Error(err))
		}
	}
	return text, nil
}

func transcriptKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "stt:" + hex.EncodeToString(sum[:])
}
