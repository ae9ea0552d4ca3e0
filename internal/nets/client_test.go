package nets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPlaceOrderSendsExactBytes(t *testing.T) {
	body := []byte(`{"mti":"0200","amount":"000000000100"}`)

	var gotBody []byte
	var gotSign, gotKeyID, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSign = r.Header.Get("Sign")
		gotKeyID = r.Header.Get("KeyId")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"mti":"0210","response_code":"00","txn_identifier":"abc","npx_data":{}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	order, err := c.PlaceOrder(context.Background(), body, "sig-value", "key-id")
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if !bytes.Equal(gotBody, body) {
		t.Fatalf("body altered in transit: %s", gotBody)
	}
	if gotSign != "sig-value" || gotKeyID != "key-id" {
		t.Fatalf("headers not forwarded: Sign=%s KeyId=%s", gotSign, gotKeyID)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type %s", gotContentType)
	}
	if order.ResponseCode != "00" || order.TxnIdentifier != "abc" {
		t.Fatalf("unexpected response: %+v", order)
	}
}

func TestPlaceOrderNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.PlaceOrder(context.Background(), []byte(`{}`), "sig", "key")

	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if gatewayErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("got status %d", gatewayErr.StatusCode)
	}
}

func TestPlaceOrderUnparsableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.PlaceOrder(context.Background(), []byte(`{}`), "sig", "key")

	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if gatewayErr.Err == nil {
		t.Fatal("expected wrapped parse error")
	}
}
