package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/hurliman-assist/internal/ports"
)

type SearchHandler struct {
	index ports.DocumentIndex
	log   *zap.Logger
}

func NewSearchHandler(index ports.DocumentIndex, log *zap.Logger) *SearchHandler {
	return &SearchHandler{index: index, log: log}
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing q parameter"})
	}
	topK := c.QueryInt("top_k", 0)

	hits, err := h.index.Search(c.Context(), query, topK)
	if err != nil {
		h.log.Error("Document search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}

	return c.JSON(fiber.Map{"hits": hits})
}

type IngestRequest struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

func (h *SearchHandler) Ingest(c *fiber.Ctx) error {
	var req IngestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty text"})
	}

	chunks, err := h.index.Ingest(c.Context(), req.Source, req.Text)
	if err != nil {
		h.log.Error("Document ingestion failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "ingestion failed"})
	}

	return c.JSON(fiber.Map{"chunks": chunks})
}
