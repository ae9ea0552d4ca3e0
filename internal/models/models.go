package models

import (
	"encoding/json"
	"time"
)

type TxnStatus string

const (
	StatusPending TxnStatus = "PENDING"
	StatusSuccess TxnStatus = "SUCCESS"
	StatusFailed  TxnStatus = "FAILED"
)

// Terminal reports whether no further callback is expected for the status.
// Late callbacks are still applied last-write-wins.
func (s TxnStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// TransactionRecord is the persisted per-transaction entity. DocID is
// derived from the gateway txn_identifier and is the only correlation
// point between the synchronous order flow and the asynchronous callback.
type TransactionRecord struct {
	DocID     string
	AttemptID string
	Status    TxnStatus
	Response  json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
