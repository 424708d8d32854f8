package transactions

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/radar-fin/radar_fin/internal/extraction"
	"github.com/radar-fin/radar_fin/internal/identity"
)

// Handler exposes the read-side transaction endpoints.
type Handler struct {
	repo    Repository
	users   *identity.Service
	advisor extraction.Advisor
}

// NewHandler constructs a transactions HTTP handler. advisor may be nil, in
// which case the insights endpoint reports itself unavailable.
func NewHandler(repo Repository, users *identity.Service, advisor extraction.Advisor) *Handler {
	return &Handler{repo: repo, users: users, advisor: advisor}
}

type transactionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Item      *string   `json:"item"`
	Amount    *string   `json:"amount"`
	Category  *string   `json:"category"`
}

// ListMine returns the authenticated owner's transactions, newest first.
func (h *Handler) ListMine(c *fiber.Ctx) error {
	ownerID, _ := c.Locals("user_id").(string)
	if ownerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "missing user identity")
	}
	rows, err := h.repo.ListByOwner(c.UserContext(), ownerID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponses(rows))
}

// ListByPhone is the legacy unauthenticated variant keyed on a path-embedded
// phone number, resolved through the same normalization as the webhook.
func (h *Handler) ListByPhone(c *fiber.Ctx) error {
	user, err := h.users.LookupByPhone(c.UserContext(), c.Params("phone"))
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "no transactions found for this phone")
		}
		return err
	}
	rows, err := h.repo.ListByOwner(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponses(rows))
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask answers a free-form question about the authenticated owner's history.
func (h *Handler) Ask(c *fiber.Ctx) error {
	if h.advisor == nil {
		return fiber.NewError(http.StatusServiceUnavailable, "insights not configured")
	}
	ownerID, _ := c.Locals("user_id").(string)
	if ownerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "missing user identity")
	}
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Question) == "" {
		return fiber.NewError(http.StatusBadRequest, "question is required")
	}

	rows, err := h.repo.ListByOwner(c.UserContext(), ownerID)
	if err != nil {
		return err
	}
	answer, err := h.advisor.Advise(c.UserContext(), req.Question, noteLines(rows))
	if err != nil {
		return fiber.NewError(http.StatusBadGateway, "insights unavailable, try again later")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"answer": answer})
}

func noteLines(rows []Transaction) []string {
	lines := make([]string, 0, len(rows))
	for _, tx := range rows {
		item := "?"
		if tx.Item != nil {
			item = *tx.Item
		}
		amount := "?"
		if tx.Amount != nil {
			amount = tx.Amount.StringFixed(2)
		}
		category := "?"
		if tx.Category != nil {
			category = *tx.Category
		}
		lines = append(lines, fmt.Sprintf("%s | %s | R$ %s | %s | %s",
			tx.CreatedAt.Format("2006-01-02"), item, amount, category, tx.MessageBody))
	}
	return lines
}

func toResponses(rows []Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(rows))
	for _, tx := range rows {
		resp := transactionResponse{
			ID:        tx.ID,
			CreatedAt: tx.CreatedAt,
			Item:      tx.Item,
			Category:  tx.Category,
		}
		if tx.Amount != nil {
			s := tx.Amount.StringFixed(2)
			resp.Amount = &s
		}
		out = append(out, resp)
	}
	return out
}
