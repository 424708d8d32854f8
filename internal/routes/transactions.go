package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/radar-fin/radar_fin/internal/transactions"
)

// RegisterTransactionRoutes wires the read-side transaction endpoints. The
// phone-keyed listing is a legacy unauthenticated variant kept for the
// dashboard; new callers use the token-scoped /transactions/me.
func RegisterTransactionRoutes(public fiber.Router, protected fiber.Router, h *transactions.Handler) {
	protected.Get("/transactions/me", h.ListMine)
	protected.Post("/ai/ask", h.Ask)
	public.Get("/users/:phone/transactions", h.ListByPhone)
}
