package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"NetsQRPay/internal/models"
)

var (
	ErrNotFound = errors.New("transaction not found")
	ErrExists   = errors.New("transaction already exists")
)

// Snapshot is a point-in-time view of a record, delivered to subscribers
// on every committed mutation.
type Snapshot struct {
	DocID     string
	Status    models.TxnStatus
	Response  json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

func snapshotOf(rec *models.TransactionRecord) Snapshot {
	return Snapshot{
		DocID:     rec.DocID,
		Status:    rec.Status,
		Response:  rec.Response,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// TransactionStore is the single shared resource between the order
// placement path and the callback ingestion path.
//
// Create must commit before the caller hands the key to any observer, so a
// callback can never race record creation from the client's point of view.
// Update is the ordering guard: a callback for a key with no prior Create
// fails with ErrNotFound and must not create the record.
type TransactionStore interface {
	Create(ctx context.Context, docID, attemptID string, now time.Time) error
	Update(ctx context.Context, docID string, now time.Time, status models.TxnStatus, response json.RawMessage) error
	Get(ctx context.Context, docID string) (*models.TransactionRecord, error)

	// Subscribe delivers the current snapshot first (when the record exists)
	// and then every subsequent mutation in commit order, until Cancel.
	Subscribe(ctx context.Context, docID string) (*Subscription, error)

	// NextStan draws the next 6-digit system trace number.
	NextStan(ctx context.Context) (string, error)
}
