package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEmbedder maps known words to axis-aligned vectors so cosine
// ranking is predictable.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		vec := []float64{0.1, 0.1, 0.1}
		switch {
		case strings.Contains(t, "charging"):
			vec = []float64{1, 0, 0}
		case strings.Contains(t, "weather"):
			vec = []float64{0, 1, 0}
		}
		out[i] = vec
	}
	return out, nil
}

func TestIndex_IngestAndSearch(t *testing.T) {
	index := NewIndex(NewMemoryStore(), fakeEmbedder{}, 5, zap.NewNop())
	ctx := context.Background()

	n, err := index.Ingest(ctx, "docs/ev.txt", "charging stations are open daily")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = index.Ingest(ctx, "docs/weather.txt", "the weather report for today")
	require.NoError(t, err)

	hits, err := index.Search(ctx, "where is charging", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "docs/ev.txt", hits[0].Source)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}

func TestIndex_IngestEmptyDocument(t *testing.T) {
	index := NewIndex(NewMemoryStore(), fakeEmbedder{}, 5, zap.NewNop())

	n, err := index.Ingest(context.Background(), "docs/empty.txt", "   \n\t ")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChunkText(t *testing.T) {
	t.Run("short text single chunk", func(t *testing.T) {
		chunks := ChunkText("hello   world", 800, 100)
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello world", chunks[0])
	})

	t.Run("long text overlaps", func(t *testing.T) {
		text := strings.Repeat("abcde ", 300) // 1800 chars after collapse
		chunks := ChunkText(text, 800, 100)
		require.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, len([]rune(c)), 800)
		}
		// Consecutive chunks share the overlap window.
		first := []rune(chunks[0])
		tail := string(first[len(first)-50:])
		assert.Contains(t, chunks[1], strings.TrimSpace(tail))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ChunkText("", 800, 100))
	})
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Zero(t, cosine([]float64{1, 0}, []float64{1}))
	assert.Zero(t, cosine([]float64{0, 0}, []float64{0, 0}))
}
