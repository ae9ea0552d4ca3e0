package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"NetsQRPay/internal/models"
)

// Memory is a map-backed TransactionStore. The API falls back to it when
// no database DSN is configured; tests across packages use it as the store
// fake.
type Memory struct {
	mu      sync.Mutex
	records map[string]*models.TransactionRecord
	stan    int64
	hub     *hub
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]*models.TransactionRecord),
		hub:     newHub(),
	}
}

func (m *Memory) Create(ctx context.Context, docID, attemptID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[docID]; ok {
		return ErrExists
	}
	rec := &models.TransactionRecord{
		DocID:     docID,
		AttemptID: attemptID,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.records[docID] = rec
	m.hub.publish(snapshotOf(rec))
	return nil
}

func (m *Memory) Update(ctx context.Context, docID string, now time.Time, status models.TxnStatus, response json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[docID]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	rec.Response = response
	rec.UpdatedAt = now
	m.hub.publish(snapshotOf(rec))
	return nil
}

func (m *Memory) Get(ctx context.Context, docID string) (*models.TransactionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[docID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// Subscribe registers under the store lock so the initial snapshot and any
// concurrent mutation cannot arrive out of order.
func (m *Memory) Subscribe(ctx context.Context, docID string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := m.hub.subscribe(docID)
	if rec, ok := m.records[docID]; ok {
		sub.push(snapshotOf(rec))
	}
	return sub, nil
}

func (m *Memory) NextStan(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stan++
	return fmt.Sprintf("%06d", m.stan%1000000), nil
}
