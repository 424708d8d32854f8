package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	messageSidField  = "MessageSid"
	dedupPrefix      = "webhook:dedup:v1:"
	inProgressMarker = "__in_progress__"

	// A crashed worker must not block redeliveries for the full dedup TTL, so
	// the in-progress reservation expires on its own after this long.
	inProgressTTL = 2 * time.Minute
)

type storedReply struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
}

// WebhookDedup suppresses transport redeliveries of already-processed inbound
// messages, keyed on the transport-assigned MessageSid form field. Within the
// TTL a redelivered message gets the originally composed reply instead of
// being reprocessed. Messages without a MessageSid pass through untouched, and
// failed (non-2xx) outcomes are not recorded so the transport can retry them.
func WebhookDedup(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.FormValue(messageSidField)
		if sid == "" {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		cacheKey := dedupPrefix + sid

		cached, err := cache.Get(ctx, cacheKey).Result()
		if err == nil {
			if cached == inProgressMarker {
				return fiber.NewError(fiber.StatusConflict, "message currently processing")
			}
			var stored storedReply
			if err := json.Unmarshal([]byte(cached), &stored); err != nil {
				logger.Warn("failed to decode stored webhook reply", slog.String("message_sid", sid), slog.Any("error", err))
				return fiber.NewError(fiber.StatusConflict, "duplicate message")
			}
			c.Set(fiber.HeaderContentType, stored.ContentType)
			return c.Status(stored.Status).SendString(stored.Body)
		}
		if err != redis.Nil {
			// Fail open on cache errors.
			logger.Error("webhook dedup lookup failed", slog.String("message_sid", sid), slog.Any("error", err))
			return c.Next()
		}

		reservation := inProgressTTL
		if ttl < reservation {
			reservation = ttl
		}
		if err := cache.SetNX(ctx, cacheKey, inProgressMarker, reservation).Err(); err != nil {
			logger.Error("webhook dedup reservation failed", slog.String("message_sid", sid), slog.Any("error", err))
			return c.Next()
		}

		handlerErr := c.Next()

		status := c.Response().StatusCode()
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cleanupCancel()

		if handlerErr != nil || status < 200 || status >= 300 {
			cache.Del(cleanupCtx, cacheKey)
			return handlerErr
		}

		stored := storedReply{
			Status:      status,
			Body:        string(c.Response().Body()),
			ContentType: string(c.Response().Header.ContentType()),
		}
		payload, err := json.Marshal(stored)
		if err != nil {
			logger.Error("failed to encode webhook reply", slog.String("message_sid", sid), slog.Any("error", err))
			cache.Del(cleanupCtx, cacheKey)
			return nil
		}
		if err := cache.Set(cleanupCtx, cacheKey, payload, ttl).Err(); err != nil {
			logger.Error("failed to persist webhook reply", slog.String("message_sid", sid), slog.Any("error", err))
			cache.Del(cleanupCtx, cacheKey)
		}
		return nil
	}
}
