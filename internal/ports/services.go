package ports

import (
	"context"
	"time"

	"github.com/seu-repo/hurliman-assist/internal/domain"
)

// AnswerRouter maps free-text queries to pre-recorded audio answers.
// Route never fails: a miss degrades to the catalog default.
type AnswerRouter interface {
	Route(ctx context.Context, queryText string) domain.MatchResult
}

// Classifier picks one tag from a closed label space, or returns
// ("", nil) when nothing fits. Implementations must honor the context
// deadline; the caller treats any error as "no classification".
type Classifier interface {
	Classify(ctx context.Context, queryText string, tags []string) (string, error)
}

// Transcriber converts a normalized PCM16 mono audio buffer to text.
// The returned text may be empty when nothing was recognized.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []byte) (string, error)
	SampleRate() int
}

// AudioConverter normalizes an arbitrary-encoded audio stream to the
// PCM16 mono buffer the Transcriber expects. A conversion failure is a
// client-input error, it usually means a malformed upload.
type AudioConverter interface {
	ToPCM16Mono(ctx context.Context, input []byte, sampleRate int) ([]byte, error)
}

// Synthesizer renders text to an audio artifact and returns its path.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// LanguageGate rewrites text into the target language register when it
// drifts too far from it. Fails open: on any error the input comes back
// unchanged.
type LanguageGate interface {
	Enforce(ctx context.Context, text string) string
}

// DocumentIndex is the embedding-backed retrieval subsystem. It runs in
// parallel to answer routing and is not part of the ask-text flow.
type DocumentIndex interface {
	Ingest(ctx context.Context, source string, text string) (int, error)
	Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
