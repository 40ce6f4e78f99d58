// Package rag implements the embedding-backed document retrieval
// subsystem. It runs alongside answer routing and is not part of the
// ask-text flow.
package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/domain"
)

const (
	DefaultTopK  = 5
	chunkMaxLen  = 800
	chunkOverlap = 100
)

// Chunk is one embedded slice of an ingested document.
type Chunk struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Source string    `json:"source"`
	Vector []float64 `json:"vector"`
}

// Store persists chunks. The corpus is small enough that search is a
// full scan with cosine scoring.
type Store interface {
	Add(ctx context.Context, chunks []Chunk) error
	All(ctx context.Context) ([]Chunk, error)
}

// Embedder turns texts into vectors; the Ollama client satisfies this.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

type Index struct {
	store    Store
	embedder Embedder
	topK     int
	log      *zap.Logger
}

func NewIndex(store Store, embedder Embedder, topK int, log *zap.Logger) *Index {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Index{store: store, embedder: embedder, topK: topK, log: log}
}

// Ingest chunks, embeds and stores a document. Returns the number of
// chunks written.
func (i *Index) Ingest(ctx context.Context, source string, text string) (int, error) {
	pieces := ChunkText(text, chunkMaxLen, chunkOverlap)
	if len(pieces) == 0 {
		return 0, nil
	}

	vectors, err := i.embedder.Embed(ctx, pieces)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", source, err)
	}

	chunks := make([]Chunk, len(pieces))
	for n, piece := range pieces {
		chunks[n] = Chunk{
			ID:     uuid.NewString(),
			Text:   piece,
			Source: source,
			Vector: vectors[n],
		}
	}
	if err := i.store.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store %s: %w", source, err)
	}

	i.log.Info("Document ingested",
		zap.String("source", source),
		zap.Int("chunks", len(chunks)),
	)
	return len(chunks), nil
}

func (i *Index) Search(ctx context.Context, query string, topK int) ([]domain.SearchHit, error) {
	if topK <= 0 {
		topK = i.topK
	}

	vectors, err := i.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec := vectors[0]

	chunks, err := i.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(chunks))
	for _, c := range chunks {
		hits = append(hits, domain.SearchHit{
			Text:   c.Text,
			Source: c.Source,
			Score:  cosine(queryVec, c.Vector),
		})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
