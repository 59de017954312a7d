package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"archiv/internal/config"
	"archiv/internal/http/middleware"
	"archiv/internal/logging"
	"archiv/internal/service"
)

// ServerInfo identifies the running service on the info route.
type ServerInfo struct {
	Name        string
	Version     string
	Environment string
	Port        string
	StartedAt   time.Time
}

type infoResponse struct {
	Success     bool      `json:"success"`
	Server      string    `json:"server"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	Port        string    `json:"port"`
	PDFCount    int       `json:"pdfCount"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"`
}

// Info godoc
// @Summary Service identity and document count
// @Tags health
// @Produce json
// @Success 200 {object} infoResponse
// @Failure 500 {object} errorPayload
// @Router /api/info [get]
// @Router / [get]
func Info(svc service.DocumentService, info ServerInfo, log *logging.Logger) fiber.Handler {
	production := info.Environment == config.EnvProduction
	log = orDiscard(log)
	return func(c *fiber.Ctx) error {
		n, err := svc.Count(c.UserContext())
		if err != nil {
			log.Error("document_count_failed", map[string]any{
				"request_id": middleware.RequestIDFromCtx(c),
				"error":      err,
			})
			return writeError(c, fiber.StatusInternalServerError, "Internal server error", errorDetails(production, err))
		}
		now := time.Now().UTC()
		return c.JSON(infoResponse{
			Success:     true,
			Server:      info.Name,
			Version:     info.Version,
			Environment: info.Environment,
			Port:        info.Port,
			PDFCount:    n,
			Timestamp:   now,
			Uptime:      now.Sub(info.StartedAt).Seconds(),
		})
	}
}
