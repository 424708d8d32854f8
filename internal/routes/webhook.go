package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/radar-fin/radar_fin/internal/webhook"
)

// RegisterWebhookRoutes wires the inbound chat transport endpoint.
func RegisterWebhookRoutes(r fiber.Router, h *webhook.Handler) {
	r.Post("/twilio", h.Receive)
}
