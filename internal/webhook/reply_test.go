package webhook

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/radar-fin/radar_fin/internal/extraction"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestComposeReplySuccess(t *testing.T) {
	res := extraction.Result{
		Available: true,
		Fields: extraction.Fields{
			Item:     strPtr("Pão"),
			Amount:   decPtr("10.00"),
			Category: strPtr("Food"),
		},
	}
	reply := ComposeReply(res)
	for _, want := range []string{"Pão", "10.00", "Food"} {
		if !strings.Contains(reply, want) {
			t.Fatalf("reply missing %q: %s", want, reply)
		}
	}
}

func TestComposeReplyPartialFields(t *testing.T) {
	res := extraction.Result{Available: true, Fields: extraction.Fields{Amount: decPtr("7.5")}}
	reply := ComposeReply(res)
	if !strings.Contains(reply, "7.50") {
		t.Fatalf("expected two-decimal amount in reply: %s", reply)
	}
	if !strings.Contains(reply, "not identified") {
		t.Fatalf("expected placeholder for missing fields: %s", reply)
	}
}

func TestComposeReplyUnavailable(t *testing.T) {
	reply := ComposeReply(extraction.Unavailable("timeout"))
	if reply != FallbackReply {
		t.Fatalf("expected fixed fallback reply, got %q", reply)
	}
}

func TestComposeReplyNeverEmpty(t *testing.T) {
	if ComposeReply(extraction.Result{}) == "" {
		t.Fatalf("reply must be non-empty")
	}
	if ComposeReply(extraction.Result{Available: true}) == "" {
		t.Fatalf("reply must be non-empty for empty fields")
	}
}

func TestTwiMLWrapsMessage(t *testing.T) {
	body := TwiML("hello & goodbye")
	if !strings.Contains(body, "<Response>") || !strings.Contains(body, "</Response>") {
		t.Fatalf("missing Response element: %s", body)
	}
	if !strings.Contains(body, "hello &amp; goodbye") {
		t.Fatalf("message not escaped: %s", body)
	}
}
