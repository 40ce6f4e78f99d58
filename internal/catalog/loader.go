package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/domain"
)

// DefaultFallbackAudio is used when neither index shape supplies a
// default answer explicitly.
const DefaultFallbackAudio = "static/audio/fallback.mp3"

const fallbackItemID = "fallback"

var (
	ErrIndexNotFound = errors.New("audio index not found")
	ErrIndexFormat   = errors.New("invalid audio index format")
)

type rawItem struct {
	ID         string   `json:"id"`
	Audio      string   `json:"audio"`
	Keys       []string `json:"keys"`
	Tag        string   `json:"tag"`
	ScreenText string   `json:"screen_text"`
}

type indexFile struct {
	DefaultAudio string    `json:"default_audio"`
	Items        []rawItem `json:"items"`
}

// Load reads the answer index and builds an immutable Catalog. Two
// source shapes are accepted: an object with default_audio and items,
// or a flat list where the element with id "fallback" supplies the
// default audio. Both normalize into the same Catalog here; nothing
// shape-dependent survives past this function.
//
// Items without audio or without keys are skipped, they could never
// participate in matching. A missing or unparseable index is a fatal
// configuration error for the caller.
func Load(path string, log *zap.Logger) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("read audio index %s: %w", path, err)
	}

	defaultAudio, rawItems, err := parseIndex(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if defaultAudio == "" {
		defaultAudio = DefaultFallbackAudio
	}

	cat := &domain.Catalog{DefaultAudio: defaultAudio}
	for _, it := range rawItems {
		if it.Audio == "" || len(it.Keys) == 0 {
			log.Debug("Skipping index item without audio or keys",
				zap.String("id", it.ID),
				zap.String("audio", it.Audio),
			)
			continue
		}

		normalized := make([]string, 0, len(it.Keys))
		for _, k := range it.Keys {
			normalized = append(normalized, Normalize(k))
		}

		cat.Entries = append(cat.Entries, domain.CatalogEntry{
			AudioRef:       it.Audio,
			Tag:            deriveTag(it),
			Keys:           it.Keys,
			NormalizedKeys: normalized,
		})
	}

	log.Info("Audio answer catalog loaded",
		zap.String("path", path),
		zap.Int("entries", len(cat.Entries)),
		zap.String("default_audio", cat.DefaultAudio),
	)
	return cat, nil
}

// parseIndex sniffs which of the two supported shapes the source uses
// and flattens it to (defaultAudio, items).
func parseIndex(data []byte) (string, []rawItem, error) {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(trimmed, []byte("{")):
		var file indexFile
		if err := json.Unmarshal(trimmed, &file); err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrIndexFormat, err)
		}
		if file.Items == nil {
			return "", nil, fmt.Errorf("%w: object index has no items field", ErrIndexFormat)
		}
		return file.DefaultAudio, file.Items, nil

	case bytes.HasPrefix(trimmed, []byte("[")):
		var items []rawItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrIndexFormat, err)
		}
		defaultAudio := ""
		for _, it := range items {
			if it.ID == fallbackItemID {
				defaultAudio = it.Audio
				break
			}
		}
		return defaultAudio, items, nil

	default:
		return "", nil, fmt.Errorf("%w: expected JSON object or array", ErrIndexFormat)
	}
}

// deriveTag falls back from the explicit tag field to the item id to
// the filename stem of the audio path.
func deriveTag(it rawItem) string {
	if it.Tag != "" {
		return it.Tag
	}
	if it.ID != "" {
		return it.ID
	}
	base := filepath.Base(it.Audio)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
