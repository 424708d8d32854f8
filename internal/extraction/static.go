package extraction

import "context"

// DisabledClient reports every message as unavailable. Used when no API key is
// configured: raw notes are still recorded, replies use the fallback text.
type DisabledClient struct{}

// Analyze always returns an unavailable result.
func (DisabledClient) Analyze(_ context.Context, _ string) Result {
	return Unavailable("extraction not configured")
}

// StaticClient returns a fixed result for every message. Useful in tests and
// local smoke runs.
type StaticClient struct {
	Result Result
}

// Analyze returns the configured result.
func (c StaticClient) Analyze(_ context.Context, _ string) Result {
	return c.Result
}
