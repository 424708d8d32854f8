package extraction

import (
	"testing"
)

func TestDecodeFieldsPlainJSON(t *testing.T) {
	fields, err := decodeFields(`{"item": "Pão", "amount": 10, "category": "Food"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fields.Item == nil || *fields.Item != "Pão" {
		t.Fatalf("unexpected item: %v", fields.Item)
	}
	if fields.Amount == nil || fields.Amount.StringFixed(2) != "10.00" {
		t.Fatalf("unexpected amount: %v", fields.Amount)
	}
	if fields.Category == nil || *fields.Category != "Food" {
		t.Fatalf("unexpected category: %v", fields.Category)
	}
}

func TestDecodeFieldsFencedJSON(t *testing.T) {
	raw := "```json\n{\"item\": \"Uber\", \"amount\": 23.456, \"category\": \"Transport\"}\n```"
	fields, err := decodeFields(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fields.Item == nil || *fields.Item != "Uber" {
		t.Fatalf("unexpected item: %v", fields.Item)
	}
	if fields.Amount.StringFixed(2) != "23.46" {
		t.Fatalf("expected amount rounded to two places, got %s", fields.Amount.String())
	}
}

func TestDecodeFieldsNulls(t *testing.T) {
	fields, err := decodeFields(`{"item": null, "amount": null, "category": null}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fields.Item != nil || fields.Amount != nil || fields.Category != nil {
		t.Fatalf("expected all-nil fields, got %+v", fields)
	}
}

func TestDecodeFieldsUnknownCategoryDropped(t *testing.T) {
	fields, err := decodeFields(`{"item": "Coisas", "amount": 5, "category": "Gadgets"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fields.Category != nil {
		t.Fatalf("expected unknown category to be dropped, got %q", *fields.Category)
	}
	if fields.Item == nil || fields.Amount == nil {
		t.Fatalf("other fields should survive an unknown category: %+v", fields)
	}
}

func TestDecodeFieldsCaseInsensitiveCategory(t *testing.T) {
	fields, err := decodeFields(`{"item": "Rent", "amount": 1200, "category": "housing"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fields.Category == nil || *fields.Category != "Housing" {
		t.Fatalf("expected canonical Housing, got %v", fields.Category)
	}
}

func TestDecodeFieldsMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"item": }`, "I could not parse that"} {
		if _, err := decodeFields(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestDecodeFieldsAmountRejectsNonNumeric(t *testing.T) {
	if _, err := decodeFields(`{"item": "x", "amount": "ten", "category": "Food"}`); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}
