// Package language keeps assistant output in the Karakalpak register.
package language

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	kaaLatinChars = `A-Za-zÁáǴǵÍíŃńÓóÚúÝý`
	kaaCyrChars   = `А-Яа-яҚқҒғҢңӨөҮүЎўІі`

	defaultThreshold = 0.7
)

var kaaAllowed = regexp.MustCompile(`[` + kaaLatinChars + kaaCyrChars + `\s\.,!?;:\-\(\)"'0-9]`)

// Generator produces a completion for a prompt; the Ollama client
// satisfies this.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gate rewrites text that drifts out of the Karakalpak alphabet back
// into it through the language model. Rewriting is best-effort: on any
// failure the original text comes back, a wrong-register answer beats a
// 500.
type Gate struct {
	generator Generator
	threshold float64
	log       *zap.Logger
}

func NewGate(generator Generator, threshold float64, log *zap.Logger) *Gate {
	if threshold <= 0 || threshold > 1 {
		threshold = defaultThreshold
	}
	return &Gate{generator: generator, threshold: threshold, log: log}
}

func (g *Gate) Enforce(ctx context.Context, text string) string {
	if IsMostlyKarakalpak(text, g.threshold) {
		return text
	}
	if g.generator == nil {
		return text
	}

	prompt := fmt.Sprintf("Rewrite the following text in Karakalpak. "+
		"Return ONLY the rewritten text, no explanations:\n\n%s", text)
	out, err := g.generator.Generate(ctx, prompt)
	if err != nil {
		g.log.Warn("Register rewrite failed, returning text unchanged", zap.Error(err))
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return text
	}
	return out
}

// IsMostlyKarakalpak is a crude alphabet-share heuristic: the fraction
// of characters drawn from the Karakalpak Latin/Cyrillic alphabets
// (plus punctuation and digits) must reach the threshold.
func IsMostlyKarakalpak(text string, threshold float64) bool {
	if text == "" {
		return true
	}
	allowed := kaaAllowed.FindAllString(text, -1)
	total := len([]rune(text))
	return float64(len(allowed))/float64(total) >= threshold
}
