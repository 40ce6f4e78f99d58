// Package audio normalizes arbitrary uploaded audio (webm/ogg/mp3/wav)
// to the raw PCM16 mono stream the recognizer needs, via ffmpeg.
package audio

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type ConversionError struct {
	Detail string
}

func (e *ConversionError) Error() string {
	return "audio conversion failed: " + e.Detail
}

type Converter struct {
	binary   string
	loudnorm bool
	log      *zap.Logger
}

type Config struct {
	Binary string
	// Loudnorm enables loudness normalization, which can help with weak
	// microphones at the cost of extra processing time.
	Loudnorm bool
}

func NewConverter(cfg Config, log *zap.Logger) *Converter {
	binary := cfg.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Converter{binary: binary, loudnorm: cfg.Loudnorm, log: log}
}

// ToPCM16Mono decodes whatever container/codec the input uses and
// resamples to signed 16-bit little-endian mono at the given rate.
// Failures are almost always malformed uploads, so they surface as
// ConversionError for the handler to map to a client error.
func (c *Converter) ToPCM16Mono(ctx context.Context, input []byte, sampleRate int) ([]byte, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-acodec", "pcm_s16le",
	}
	if c.loudnorm {
		args = append(args, "-af", "loudnorm=I=-23:TP=-2:LRA=11")
	}
	args = append(args, "-f", "s16le", "pipe:1")

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := lastLines(stderr.String(), 15)
		c.log.Warn("ffmpeg conversion failed", zap.String("stderr", detail))
		return nil, &ConversionError{Detail: detail}
	}
	if stdout.Len() == 0 {
		return nil, &ConversionError{Detail: "empty output stream"}
	}
	return stdout.Bytes(), nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
