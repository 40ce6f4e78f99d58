package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/ports"
)

type SynthesizeHandler struct {
	synth ports.Synthesizer
	gate  ports.LanguageGate
	log   *zap.Logger
}

func NewSynthesizeHandler(synth ports.Synthesizer, gate ports.LanguageGate, log *zap.Logger) *SynthesizeHandler {
	return &SynthesizeHandler{synth: synth, gate: gate, log: log}
}

type SynthesizeRequest struct {
	Text string `json:"text"`
}

func (h *SynthesizeHandler) Synthesize(c *fiber.Ctx) error {
	var req SynthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty text"})
	}

	if h.gate != nil {
		text = h.gate.Enforce(c.Context(), text)
	}

	path, err := h.synth.Synthesize(c.Context(), text)
	if err != nil {
		h.log.Error("Speech synthesis failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "synthesis failed"})
	}

	return c.JSON(fiber.Map{"audio_url": "/" + strings.TrimLeft(path, "/")})
}
