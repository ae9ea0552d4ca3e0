package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"NetsQRPay/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// notifyChannel carries the doc id of every committed mutation, so API
// instances other than the one that took the callback still fan out to
// their local subscribers.
const notifyChannel = "nets_txn_updates"

type Postgres struct {
	Pool *pgxpool.Pool
	hub  *hub
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{Pool: pool, hub: newHub()}
}

func (s *Postgres) Create(ctx context.Context, docID, attemptID string, now time.Time) error {
	return s.mutate(ctx, docID, `
		INSERT INTO nets_transactions (doc_id, attempt_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`, docID, attemptID, models.StatusPending, now)
}

func (s *Postgres) Update(ctx context.Context, docID string, now time.Time, status models.TxnStatus, response json.RawMessage) error {
	return s.mutate(ctx, docID, `
		UPDATE nets_transactions
		SET status=$2, response=$3, updated_at=$4
		WHERE doc_id=$1
	`, docID, status, response, now)
}

// mutate runs the statement and the change notification in one transaction;
// the notification is delivered on commit, which keeps subscriber delivery
// in commit order.
func (s *Postgres) mutate(ctx context.Context, docID, sql string, args ...any) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrExists
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, docID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Postgres) Get(ctx context.Context, docID string) (*models.TransactionRecord, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT doc_id, attempt_id, status, response, created_at, updated_at
		FROM nets_transactions WHERE doc_id=$1
	`, docID)

	var rec models.TransactionRecord
	var response []byte
	err := row.Scan(
		&rec.DocID,
		&rec.AttemptID,
		&rec.Status,
		&response,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.Response = response
	return &rec, nil
}

func (s *Postgres) Subscribe(ctx context.Context, docID string) (*Subscription, error) {
	sub := s.hub.subscribe(docID)

	rec, err := s.Get(ctx, docID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		sub.Cancel()
		return nil, err
	}
	if rec != nil {
		sub.push(snapshotOf(rec))
	}
	return sub, nil
}

func (s *Postgres) NextStan(ctx context.Context) (string, error) {
	var n int64
	if err := s.Pool.QueryRow(ctx, `SELECT nextval('nets_stan_seq')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n%1000000), nil
}

// Listen consumes change notifications and republishes fresh snapshots to
// local subscribers. Runs until ctx is done, reconnecting on failure.
func (s *Postgres) Listen(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.listenOnce(ctx); err != nil && ctx.Err() == nil {
			log.Printf("store listener failed: %v", err)
			time.Sleep(3 * time.Second)
		}
	}
}

func (s *Postgres) listenOnce(ctx context.Context) error {
	conn, err := s.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `LISTEN `+notifyChannel); err != nil {
		return err
	}

	for {
		note, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		rec, err := s.Get(ctx, note.Payload)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			log.Printf("store listener snapshot load failed key=%s: %v", note.Payload, err)
			continue
		}
		s.hub.publish(snapshotOf(rec))
	}
}
