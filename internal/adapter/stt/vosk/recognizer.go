// Package vosk wraps the Vosk speech recognition engine behind the
// Transcriber port. The engine expects PCM16 mono audio at a fixed
// sample rate; conversion is the caller's job.
package vosk

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"
	"go.uber.org/zap"
)

const DefaultSampleRate = 16000

// feed the recognizer in 4000-frame chunks, same cadence the engine's
// own examples use
const chunkBytes = 8000

type Config struct {
	ModelPath  string
	SampleRate int
	// Phrases optionally constrains recognition to a domain vocabulary,
	// which noticeably improves accuracy on small models.
	Phrases []string
}

type Recognizer struct {
	mu         sync.Mutex
	model      *vosk.VoskModel
	rec        *vosk.VoskRecognizer
	sampleRate int
	log        *zap.Logger
}

type finalResult struct {
	Text string `json:"text"`
}

func New(cfg Config, log *zap.Logger) (*Recognizer, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("vosk model not found: %s", cfg.ModelPath)
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	model, err := vosk.NewModel(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load vosk model: %w", err)
	}

	var rec *vosk.VoskRecognizer
	if len(cfg.Phrases) > 0 {
		grammar, err := json.Marshal(cfg.Phrases)
		if err != nil {
			model.Free()
			return nil, fmt.Errorf("marshal phrase grammar: %w", err)
		}
		rec, err = vosk.NewRecognizerGrm(model, float64(sampleRate), string(grammar))
		if err != nil {
			model.Free()
			return nil, fmt.Errorf("create vosk recognizer: %w", err)
		}
	} else {
		rec, err = vosk.NewRecognizer(model, float64(sampleRate))
		if err != nil {
			model.Free()
			return nil, fmt.Errorf("create vosk recognizer: %w", err)
		}
	}
	rec.SetWords(1)

	log.Info("Vosk model loaded",
		zap.String("path", cfg.ModelPath),
		zap.Int("sample_rate", sampleRate),
		zap.Int("phrase_hints", len(cfg.Phrases)),
	)
	return &Recognizer{
		model:      model,
		rec:        rec,
		sampleRate: sampleRate,
		log:        log,
	}, nil
}

func (r *Recognizer) SampleRate() int {
	return r.sampleRate
}

// Transcribe feeds a PCM16 mono buffer through the recognizer and
// returns the final text, possibly empty. The underlying recognizer is
// stateful, so calls serialize on a mutex.
func (r *Recognizer) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for offset := 0; offset < len(pcm); offset += chunkBytes {
		if err := ctx.Err(); err != nil {
			r.rec.Reset()
			return "", err
		}
		end := offset + chunkBytes
		if end > len(pcm) {
			end = len(pcm)
		}
		r.rec.AcceptWaveform(pcm[offset:end])
	}

	raw := r.rec.FinalResult()
	r.rec.Reset()

	var result finalResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return "", fmt.Errorf("parse vosk result: %w", err)
	}
	return result.Text, nil
}

func (r *Recognizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec != nil {
		r.rec.Free()
		r.rec = nil
	}
	if r.model != nil {
		r.model.Free()
		r.model = nil
	}
}
