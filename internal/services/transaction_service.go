package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"NetsQRPay/internal/models"
	"NetsQRPay/internal/nets"
	"NetsQRPay/internal/store"

	"github.com/google/uuid"
)

var (
	ErrMissingCredentials = errors.New("gateway credentials not configured")
	ErrInvalidAmount      = errors.New("amount must be positive")
)

// Gateway is the slice of the NETS client the service needs.
type Gateway interface {
	PlaceOrder(ctx context.Context, body []byte, signature, keyID string) (*nets.OrderResponse, error)
}

type TransactionService struct {
	Store   store.TransactionStore
	Gateway Gateway

	KeyID       string
	Secret      string
	CallbackURL string

	AmountCents     int64
	Currency        string
	SourceAmount    string
	TerminalID      string
	MerchantID      string
	InstitutionCode string
}

// PlaceResult mirrors what the client needs to render the QR and attach an
// observer: the raw gateway response plus the derived document id.
type PlaceResult struct {
	OK            bool
	OrderResponse *nets.OrderResponse
	DocID         string
	AttemptID     string
}

// Place runs the synchronous half of the transaction lifecycle: build and
// sign the order, call the switch, derive the storage key and persist the
// PENDING record. The record is committed before the caller learns the key,
// so an observer can never attach ahead of creation.
func (s *TransactionService) Place(ctx context.Context, amountCents int64) (*PlaceResult, error) {
	if s.KeyID == "" || s.Secret == "" {
		return nil, ErrMissingCredentials
	}
	if amountCents == 0 {
		amountCents = s.AmountCents
	}
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	stan, err := s.Store.NextStan(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req := nets.BuildOrderRequest(nets.OrderParams{
		Amount:          nets.FormatAmount(amountCents),
		Stan:            stan,
		CallbackURL:     s.CallbackURL,
		KeyID:           s.KeyID,
		TerminalID:      s.TerminalID,
		MerchantID:      s.MerchantID,
		InstitutionCode: s.InstitutionCode,
		SourceAmount:    s.SourceAmount,
		Currency:        s.Currency,
	}, now)

	// Marshal once: these exact bytes are both signed and transmitted.
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	signature := nets.Sign(body, s.Secret)

	attemptID := uuid.NewString()
	order, err := s.Gateway.PlaceOrder(ctx, body, signature, s.KeyID)
	if err != nil {
		return nil, err
	}

	docID := nets.DeriveDocID(order.TxnIdentifier)
	if err := s.Store.Create(ctx, docID, attemptID, now); err != nil {
		return nil, err
	}

	log.Printf("order placed attempt=%s doc=%s stan=%s rc=%s", attemptID, docID, stan, order.ResponseCode)
	return &PlaceResult{
		OK:            order.ResponseCode == "00",
		OrderResponse: order,
		DocID:         docID,
		AttemptID:     attemptID,
	}, nil
}

// ApplyCallback ingests one asynchronous status callback. The raw body is
// persisted verbatim inside the record; repeated callbacks with the same
// terminal status re-apply the same mapping and are harmless.
func (s *TransactionService) ApplyCallback(ctx context.Context, payload *nets.TransactionQueryResponse, raw json.RawMessage) (models.TxnStatus, error) {
	docID := nets.DeriveDocID(payload.TxnIdentifier)
	status := StatusForResponseCode(payload.ResponseCode)

	if err := s.Store.Update(ctx, docID, time.Now(), status, raw); err != nil {
		return status, err
	}

	log.Printf("callback applied doc=%s rc=%s status=%s", docID, payload.ResponseCode, status)
	return status, nil
}

// StatusForResponseCode maps a gateway response code to the canonical
// status: "00" approved, "09" still in progress, anything else failed.
func StatusForResponseCode(code string) models.TxnStatus {
	switch code {
	case "00":
		return models.StatusSuccess
	case "09":
		return models.StatusPending
	default:
		return models.StatusFailed
	}
}
