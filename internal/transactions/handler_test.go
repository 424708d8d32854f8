package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/radar-fin/radar_fin/internal/extraction"
	"github.com/radar-fin/radar_fin/internal/identity"
)

func newAskApp(t *testing.T, ownerID string, advisor extraction.Advisor) (*fiber.App, Repository) {
	t.Helper()
	repo := NewInMemory()
	users := identity.NewService(identity.NewMemoryRepository(), "55")
	h := NewHandler(repo, users, advisor)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if ownerID != "" {
			c.Locals("user_id", ownerID)
		}
		return c.Next()
	})
	app.Post("/ai/ask", h.Ask)
	return app, repo
}

func postAsk(t *testing.T, app *fiber.App, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/ai/ask", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(raw)
}

func TestAskAnswersFromHistory(t *testing.T) {
	owner := uuid.NewString()
	app, repo := newAskApp(t, owner, extraction.StaticAdvisor{Answer: "You spent R$ 10.00 on Food."})

	err := repo.Insert(context.Background(), Transaction{
		ID:          uuid.NewString(),
		SenderID:    "whatsapp:+5511999998888",
		OwnerID:     owner,
		MessageBody: "bought bread 10 reais",
		Item:        strPtr("Pão"),
		Amount:      decPtr("10.00"),
		Category:    strPtr("Food"),
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	status, body := postAsk(t, app, `{"question":"how much did I spend on food?"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var payload struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Answer != "You spent R$ 10.00 on Food." {
		t.Fatalf("unexpected answer: %q", payload.Answer)
	}
}

func TestAskRequiresQuestion(t *testing.T) {
	app, _ := newAskApp(t, uuid.NewString(), extraction.StaticAdvisor{Answer: "unused"})

	status, _ := postAsk(t, app, `{"question":"  "}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestAskWithoutAdvisorUnavailable(t *testing.T) {
	app, _ := newAskApp(t, uuid.NewString(), nil)

	status, _ := postAsk(t, app, `{"question":"anything"}`)
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
}

func TestAskAdvisorFailureMapsToBadGateway(t *testing.T) {
	app, _ := newAskApp(t, uuid.NewString(), extraction.StaticAdvisor{Err: errors.New("model offline")})

	status, body := postAsk(t, app, `{"question":"anything"}`)
	if status != fiber.StatusBadGateway {
		t.Fatalf("expected 502, got %d", status)
	}
	if strings.Contains(body, "model offline") {
		t.Fatalf("internal error detail leaked: %s", body)
	}
}
