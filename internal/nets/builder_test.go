package nets

import (
	"testing"
	"time"
)

func TestBuildOrderRequestDateTime(t *testing.T) {
	now := time.Date(2026, 3, 7, 9, 5, 2, 0, time.Local)
	req := BuildOrderRequest(OrderParams{Amount: FormatAmount(100), Stan: "100001"}, now)

	if req.TransactionDate != "0307" {
		t.Fatalf("got date %s, want 0307", req.TransactionDate)
	}
	if req.TransactionTime != "090502" {
		t.Fatalf("got time %s, want 090502", req.TransactionTime)
	}

	// Both fields parse back to the instant they came from.
	parsed, err := time.ParseInLocation("0102 150405", req.TransactionDate+" "+req.TransactionTime, time.Local)
	if err != nil {
		t.Fatalf("parse back failed: %v", err)
	}
	if parsed.Month() != now.Month() || parsed.Day() != now.Day() ||
		parsed.Hour() != now.Hour() || parsed.Minute() != now.Minute() || parsed.Second() != now.Second() {
		t.Fatalf("round trip mismatch: %v vs %v", parsed, now)
	}
}

func TestBuildOrderRequestFixedFields(t *testing.T) {
	req := BuildOrderRequest(OrderParams{Amount: FormatAmount(100), Stan: "100001"}, time.Now())

	if req.MTI != "0200" || req.ProcessCode != "990000" {
		t.Fatalf("unexpected message header: mti=%s process_code=%s", req.MTI, req.ProcessCode)
	}
	if req.EntryMode != "000" || req.ConditionCode != "85" {
		t.Fatalf("unexpected entry/condition: %s/%s", req.EntryMode, req.ConditionCode)
	}
	if req.HostTID != DefaultTerminalID || req.HostMID != DefaultMerchantID || req.InstitutionCode != DefaultInstitutionCode {
		t.Fatal("defaults not applied")
	}
	if req.GetQRCode != "Y" {
		t.Fatal("expected inline QR generation to be requested")
	}
	if req.NpxData[NpxPOSID] != DefaultTerminalID || req.NpxData[NpxSourceCurrency] != DefaultCurrency {
		t.Fatalf("unexpected npx data: %v", req.NpxData)
	}
}

func TestBuildOrderRequestCallbackChannel(t *testing.T) {
	req := BuildOrderRequest(OrderParams{
		Amount:      FormatAmount(250),
		Stan:        "000042",
		CallbackURL: "https://merchant.example/nets/callback",
		KeyID:       "key-123",
	}, time.Now())

	if len(req.Communication) != 1 {
		t.Fatalf("got %d communication entries, want 1", len(req.Communication))
	}
	ch := req.Communication[0]
	if ch.Type != "https_proxy" || ch.Category != "URL" {
		t.Fatalf("unexpected channel descriptor: %+v", ch)
	}
	if ch.Destination != "https://merchant.example/nets/callback" {
		t.Fatalf("unexpected destination %s", ch.Destination)
	}
	if ch.Addon["external_API_keyID"] != "key-123" {
		t.Fatalf("key id not embedded: %v", ch.Addon)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(100); got != "000000000100" {
		t.Fatalf("got %s, want 000000000100", got)
	}
	if got := FormatAmount(0); got != "000000000000" {
		t.Fatalf("got %s", got)
	}
}

// The builder does not validate amount width; the caller owns that
// contract. Keep that behavior visible.
func TestBuildOrderRequestAmountPassthrough(t *testing.T) {
	req := BuildOrderRequest(OrderParams{Amount: "42", Stan: "000001"}, time.Now())
	if req.Amount != "42" {
		t.Fatalf("amount was altered: %s", req.Amount)
	}
}
