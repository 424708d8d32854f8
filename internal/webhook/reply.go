package webhook

import (
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/radar-fin/radar_fin/internal/extraction"
)

const (
	// FallbackReply is the fixed confirmation used when extraction was
	// unavailable. The note is saved either way.
	FallbackReply = "Got it! I saved your note, but could not extract the details."

	// FailureReply is the generic text returned to the channel when the
	// request itself failed. Never carries internal error detail.
	FailureReply = "Sorry, something went wrong while processing your message. Please try again."

	notIdentified = "not identified"
)

// ComposeReply renders the user-facing confirmation for an extraction result.
// Pure function; always returns non-empty text.
func ComposeReply(res extraction.Result) string {
	if !res.Available {
		return FallbackReply
	}

	item := notIdentified
	if res.Fields.Item != nil {
		item = *res.Fields.Item
	}
	amount := decimal.Zero
	if res.Fields.Amount != nil {
		amount = *res.Fields.Amount
	}
	category := notIdentified
	if res.Fields.Category != nil {
		category = *res.Fields.Category
	}

	return fmt.Sprintf("Got it! ✅\n\nItem: *%s*\nAmount: *R$ %s*\nCategory: *%s*",
		item, amount.StringFixed(2), category)
}

type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// TwiML wraps a reply text in the messaging response markup the transport expects.
func TwiML(message string) string {
	body, err := xml.Marshal(twiml{Message: message})
	if err != nil {
		// Marshalling a two-field struct cannot fail at runtime; keep the
		// transport contract anyway.
		return xml.Header + "<Response><Message></Message></Response>"
	}
	return xml.Header + string(body)
}
