package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"gobrgbridge/types"

	"github.com/sirupsen/logrus"
)

const DefaultCapacity = 50

var (
	ErrStoreUnavailable  = errors.New("history store unavailable")
	ErrDuplicateTransfer = errors.New("transfer already in history")
)

// Store is the transfer history: a JSON array under one key, most recent first,
// never longer than its capacity.
type Store struct {
	logger   *logrus.Entry
	kv       KV
	key      string
	capacity int

	// serializes read-modify-write cycles of this process
	mu sync.Mutex
}

func NewStore(logger *logrus.Logger, kv KV, key string, capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		logger:   logger.WithField("pkg", "history").WithField("key", key),
		kv:       kv,
		key:      key,
		capacity: capacity,
	}
}

func (s *Store) Capacity() int {
	return s.capacity
}

// load returns ErrStoreUnavailable when the backend fails.
// Unparsable content is reported as an empty history.
func (s *Store) load(ctx context.Context) ([]types.TransferRecord, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if len(data) == 0 {
		return []types.TransferRecord{}, nil
	}

	var records []types.TransferRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warnf("stored history is corrupted, treating as empty: %v", err)
		return []types.TransferRecord{}, nil
	}
	if records == nil {
		records = []types.TransferRecord{}
	}
	return records, nil
}

func (s *Store) save(ctx context.Context, records []types.TransferRecord) error {
	if len(records) > s.capacity {
		records = records[:s.capacity]
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("cannot marshal history to JSON: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Append puts rec in front of the history and evicts the oldest records beyond capacity.
func (s *Store) Append(ctx context.Context, rec types.TransferRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.TxHash == rec.TxHash {
			return ErrDuplicateTransfer
		}
	}

	records = append([]types.TransferRecord{rec}, records...)
	if len(records) > s.capacity {
		s.logger.WithField("evicted", len(records)-s.capacity).Debug("history capacity reached")
	}
	return s.save(ctx, records)
}

// UpdateStatus moves the record of txHash to status. It is a no-op when the record is
// absent or when status is not a forward step from the stored one, so concurrent
// writers can only repeat work. Reports whether the record changed.
func (s *Store) UpdateStatus(ctx context.Context, txHash string, status types.TxStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range records {
		if records[i].TxHash != txHash {
			continue
		}
		if !records[i].Status.Precedes(status) {
			return false, nil
		}
		records[i].Status = status
		if err := s.save(ctx, records); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Get returns the record of txHash. Unlike ListAll it reports backend failures,
// so callers can tell "gone" from "unreadable right now".
func (s *Store) Get(ctx context.Context, txHash string) (types.TransferRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return types.TransferRecord{}, false, err
	}
	for _, r := range records {
		if r.TxHash == txHash {
			return r, true, nil
		}
	}
	return types.TransferRecord{}, false, nil
}

// ListAll returns the history, most recent first. It never fails: an unreachable
// or corrupted backend yields an empty list.
func (s *Store) ListAll(ctx context.Context) []types.TransferRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		s.logger.Warnf("cannot read history: %v", err)
		return []types.TransferRecord{}
	}
	if len(records) > s.capacity {
		records = records[:s.capacity]
	}
	return records
}

// Pending returns the records that are not in a terminal status.
func (s *Store) Pending(ctx context.Context) []types.TransferRecord {
	all := s.ListAll(ctx)
	pending := make([]types.TransferRecord, 0, len(all))
	for _, r := range all {
		if !r.Status.Terminal() {
			pending = append(pending, r)
		}
	}
	return pending
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Del(ctx, s.key); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
