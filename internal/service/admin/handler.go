package admin

import (
	"github.com/gofiber/fiber/v2"
)

// Handler handles admin HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new admin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(app *fiber.App) {
	admin := app.Group("/api/admin")

	admin.Get("/catalog", h.GetCatalogStats)
	admin.Get("/stats", h.GetQueryStats)
	admin.Get("/stats.csv", h.ExportQueryStatsCSV)
}

// GetCatalogStats handles GET /api/admin/catalog
func (h *Handler) GetCatalogStats(c *fiber.Ctx) error {
	return c.JSON(h.service.CatalogStats())
}

// GetQueryStats handles GET /api/admin/stats
func (h *Handler) GetQueryStats(c *fiber.Ctx) error {
	return c.JSON(h.service.QueryStats())
}

// ExportQueryStatsCSV handles GET /api/admin/stats.csv
func (h *Handler) ExportQueryStatsCSV(c *fiber.Ctx) error {
	data, err := h.service.ExportQueryStatsCSV()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to export stats",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="query-stats.csv"`)
	return c.Send(data)
}
