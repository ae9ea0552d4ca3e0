package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NetsQRPay/internal/models"
	"NetsQRPay/internal/nets"
	"NetsQRPay/internal/store"
)

func newService(t *testing.T, gatewayURL string) (*TransactionService, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	return &TransactionService{
		Store:       m,
		Gateway:     nets.NewClient(gatewayURL),
		KeyID:       "key-1",
		Secret:      "secret-1",
		CallbackURL: "https://merchant.example/nets/callback",
		AmountCents: 100,
	}, m
}

func TestPlaceCreatesPendingRecord(t *testing.T) {
	var gotSign string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSign = r.Header.Get("Sign")
		gotBody, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(nets.OrderResponse{
			MTI:           "0210",
			ResponseCode:  "00",
			TxnIdentifier: "long-gateway-identifier-0001",
			QRCode:        "aGVsbG8=",
			NpxData:       nets.NpxData{},
		})
	}))
	defer srv.Close()

	svc, m := newService(t, srv.URL)
	result, err := svc.Place(context.Background(), 0)
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	if !result.OK {
		t.Fatal("expected ok result for response_code 00")
	}
	if want := nets.DeriveDocID("long-gateway-identifier-0001"); result.DocID != want {
		t.Fatalf("doc id %s, want %s", result.DocID, want)
	}
	if result.OrderResponse.QRCode == "" {
		t.Fatal("qr code not surfaced")
	}

	// The signature covers the exact transmitted bytes.
	if gotSign != nets.Sign(gotBody, "secret-1") {
		t.Fatal("signature does not match transmitted body")
	}

	var sent nets.OrderRequest
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("unmarshal sent body: %v", err)
	}
	if sent.Amount != "000000000100" {
		t.Fatalf("amount %s, want 000000000100", sent.Amount)
	}
	if len(sent.Stan) != 6 {
		t.Fatalf("stan %q is not 6 digits", sent.Stan)
	}

	rec, err := m.Get(context.Background(), result.DocID)
	if err != nil {
		t.Fatalf("record not created: %v", err)
	}
	if rec.Status != models.StatusPending || rec.Response != nil {
		t.Fatalf("unexpected fresh record: %+v", rec)
	}
	if rec.AttemptID != result.AttemptID {
		t.Fatal("attempt id not persisted")
	}
}

func TestPlaceGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc, m := newService(t, srv.URL)
	_, err := svc.Place(context.Background(), 0)

	var gatewayErr *nets.GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}

	// No record may exist for a failed synchronous call.
	if _, err := m.Get(context.Background(), nets.DeriveDocID("anything")); !errors.Is(err, store.ErrNotFound) {
		t.Fatal("store must stay empty on gateway failure")
	}
}

func TestPlaceMissingCredentials(t *testing.T) {
	svc, _ := newService(t, "http://unused")
	svc.Secret = ""
	if _, err := svc.Place(context.Background(), 0); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestApplyCallbackUpdatesRecord(t *testing.T) {
	svc, m := newService(t, "http://unused")
	ctx := context.Background()

	docID := nets.DeriveDocID("txn-xyz")
	if err := m.Create(ctx, docID, "a1", time.Now()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	raw := json.RawMessage(`{"txn_identifier":"txn-xyz","response_code":"00"}`)
	status, err := svc.ApplyCallback(ctx, &nets.TransactionQueryResponse{TxnIdentifier: "txn-xyz", ResponseCode: "00"}, raw)
	if err != nil {
		t.Fatalf("apply callback failed: %v", err)
	}
	if status != models.StatusSuccess {
		t.Fatalf("got status %s", status)
	}

	rec, err := m.Get(ctx, docID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.Status != models.StatusSuccess || string(rec.Response) != string(raw) {
		t.Fatalf("record not updated: %+v", rec)
	}
}

func TestApplyCallbackUnknownTransaction(t *testing.T) {
	svc, _ := newService(t, "http://unused")
	_, err := svc.ApplyCallback(context.Background(), &nets.TransactionQueryResponse{TxnIdentifier: "never-created", ResponseCode: "00"}, nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusForResponseCode(t *testing.T) {
	cases := []struct {
		code string
		want models.TxnStatus
	}{
		{"00", models.StatusSuccess},
		{"09", models.StatusPending},
		{"77", models.StatusFailed},
		{"68", models.StatusFailed},
		{"", models.StatusFailed},
	}
	for _, tc := range cases {
		if got := StatusForResponseCode(tc.code); got != tc.want {
			t.Fatalf("code %q: got %s, want %s", tc.code, got, tc.want)
		}
	}
}
