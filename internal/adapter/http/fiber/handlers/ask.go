package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/ports"
)

type AskHandler struct {
	router ports.AnswerRouter
	log    *zap.Logger
}

func NewAskHandler(router ports.AnswerRouter, log *zap.Logger) *AskHandler {
	return &AskHandler{router: router, log: log}
}

type AskTextRequest struct {
	Text string `json:"text"`
}

type AskTextResponse struct {
	MatchedTag string `json:"matched_tag"`
	MatchedBy  string `json:"matched_by"`
	AudioURL   string `json:"audio_url"`
	ScreenText string `json:"screen_text"`
}

// AskText resolves a typed or transcribed query to a playable audio
// answer. Routing itself cannot fail; only an empty request is an
// error.
func (h *AskHandler) AskText(c *fiber.Ctx) error {
	var req AskTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty text"})
	}

	result := h.router.Route(c.Context(), text)

	// The audio ref lives under the static mount; prefix it into a
	// servable URL for the frontend player.
	audioURL := "/" + strings.TrimLeft(result.AudioRef, "/")

	return c.JSON(AskTextResponse{
		MatchedTag: result.Tag,
		MatchedBy:  string(result.MatchedBy),
		AudioURL:   audioURL,
		ScreenText: fmt.Sprintf("%s (%s)", result.Tag, result.MatchedBy),
	})
}
