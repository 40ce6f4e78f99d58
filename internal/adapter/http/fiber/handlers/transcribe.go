package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/adapter/audio"
	"github.com/seu-repo/hurliman-assist/internal/service/speech"
)

type TranscribeHandler struct {
	speech *speech.Service
	log    *zap.Logger
}

func NewTranscribeHandler(svc *speech.Service, log *zap.Logger) *TranscribeHandler {
	return &TranscribeHandler{speech: svc, log: log}
}

// Transcribe accepts one complete audio file (not streamed fragments)
// and returns its transcription. Malformed uploads are the client's
// problem, engine failures are ours.
func (h *TranscribeHandler) Transcribe(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file upload"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file upload"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file upload"})
	}

	text, err := h.speech.TranscribeUpload(c.Context(), data)
	if err != nil {
		var convErr *audio.ConversionError
		switch {
		case errors.Is(err, speech.ErrEmptyUpload):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty file"})
		case errors.As(err, &convErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": convErr.Error()})
		default:
			h.log.Error("Transcription failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "transcription failed"})
		}
	}

	return c.JSON(fiber.Map{"text": text})
}
