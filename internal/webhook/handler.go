package webhook

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the inbound chat webhook. All responses are TwiML; a non-2xx
// status tells the transport to apply its redelivery policy.
type Handler struct {
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewHandler constructs the webhook HTTP handler.
func NewHandler(pipeline *Pipeline, logger *slog.Logger) *Handler {
	return &Handler{pipeline: pipeline, logger: logger}
}

// Receive processes one inbound message from the chat transport.
func (h *Handler) Receive(c *fiber.Ctx) error {
	sender := c.FormValue("From")
	body := c.FormValue("Body")

	if sender == "" || body == "" {
		h.logger.Warn("webhook request missing fields", "has_sender", sender != "", "has_body", body != "")
		return sendTwiML(c, http.StatusBadRequest, FailureReply)
	}

	outcome, err := h.pipeline.Process(c.UserContext(), sender, body)
	if err != nil {
		h.logger.Error("webhook processing failed", "error", err)
		return sendTwiML(c, http.StatusInternalServerError, FailureReply)
	}

	return sendTwiML(c, http.StatusOK, outcome.Reply)
}

func sendTwiML(c *fiber.Ctx, status int, message string) error {
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.Status(status).SendString(TwiML(message))
}
