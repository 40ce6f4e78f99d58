package websocket

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/ports"
	"github.com/seu-repo/hurliman-assist/internal/service/speech"
)

type VoiceStreamHandler struct {
	speech *speech.Service
	router ports.AnswerRouter
	logger *zap.Logger
}

func NewVoiceStreamHandler(speechSvc *speech.Service, router ports.AnswerRouter, logger *zap.Logger) *VoiceStreamHandler {
	return &VoiceStreamHandler{
		speech: speechSvc,
		router: router,
		logger: logger,
	}
}

type voiceReply struct {
	Text       string `json:"text"`
	MatchedTag string `json:"matched_tag"`
	MatchedBy  string `json:"matched_by"`
	AudioURL   string `json:"audio_url"`
	Error      string `json:"error,omitempty"`
}

// HandleVoiceStream serves one client conversation. Binary frames carry
// a complete audio utterance; text frames carry an already-typed query.
// Every frame gets exactly one JSON reply.
func (h *VoiceStreamHandler) HandleVoiceStream(c *websocket.Conn) {
	ctx := context.Background()

	for {
		messageType, payload, err := c.ReadMessage()
		if err != nil {
			break
		}

		var reply voiceReply

		switch messageType {
		case websocket.BinaryMessage:
			text, err := h.speech.TranscribeUpload(ctx, payload)
			if err != nil {
				h.logger.Warn("Voice frame transcription failed", zap.Error(err))
				reply.Error = "transcription failed"
				break
			}
			reply = h.answer(ctx, text)
		case websocket.TextMessage:
			reply = h.answer(ctx, string(payload))
		default:
			continue
		}

		data, _ := json.Marshal(reply)
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Error("Failed to send voice reply", zap.Error(err))
			break
		}
	}
}

func (h *VoiceStreamHandler) answer(ctx context.Context, text string) voiceReply {
	text = strings.TrimSpace(text)
	if text == "" {
		return voiceReply{Error: "empty query"}
	}

	result := h.router.Route(ctx, text)
	return voiceReply{
		Text:       text,
		MatchedTag: result.Tag,
		MatchedBy:  string(result.MatchedBy),
		AudioURL:   "/" + strings.TrimLeft(result.AudioRef, "/"),
	}
}

// SetupVoiceRoutes mounts the voice websocket endpoint.
func SetupVoiceRoutes(app *fiber.App, handler *VoiceStreamHandler) {
	app.Use("/ws/voice", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/voice", websocket.New(handler.HandleVoiceStream))
}
