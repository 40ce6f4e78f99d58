// Package tts synthesizes speech with espeak-ng and transcodes the
// result to mp3 through ffmpeg.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	Voice        string
	WordsPerMin  int
	OutputDir    string
	EspeakBinary string
	FFmpegBinary string
}

type Synthesizer struct {
	cfg Config
	log *zap.Logger
}

func NewSynthesizer(cfg Config, log *zap.Logger) *Synthesizer {
	if cfg.Voice == "" {
		cfg.Voice = "ru"
	}
	if cfg.WordsPerMin <= 0 {
		cfg.WordsPerMin = 160
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./storage/outputs"
	}
	if cfg.EspeakBinary == "" {
		cfg.EspeakBinary = "espeak-ng"
	}
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	return &Synthesizer{cfg: cfg, log: log}
}

// Synthesize renders text to a uniquely named mp3 under the output dir
// and returns its path.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	outPath := filepath.Join(s.cfg.OutputDir, uuid.NewString()+".mp3")

	espeak := exec.CommandContext(ctx, s.cfg.EspeakBinary,
		"-v", s.cfg.Voice,
		"-s", strconv.Itoa(s.cfg.WordsPerMin),
		"--stdout",
		text,
	)
	wav, err := espeak.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("espeak pipe: %w", err)
	}

	ffmpeg := exec.CommandContext(ctx, s.cfg.FFmpegBinary,
		"-hide_banner", "-loglevel", "error",
		"-y", "-i", "pipe:0", "-f", "mp3", outPath,
	)
	ffmpeg.Stdin = wav
	var stderr bytes.Buffer
	ffmpeg.Stderr = &stderr

	if err := espeak.Start(); err != nil {
		return "", fmt.Errorf("start espeak: %w", err)
	}
	if err := ffmpeg.Run(); err != nil {
		espeak.Wait()
		return "", fmt.Errorf("ffmpeg transcode: %w: %s", err, stderr.String())
	}
	if err := espeak.Wait(); err != nil {
		return "", fmt.Errorf("espeak: %w", err)
	}

	s.log.Debug("Synthesized speech artifact",
		zap.String("path", outPath),
		zap.Int("text_len", len(text)),
	)
	return outPath, nil
}
