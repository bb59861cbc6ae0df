package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"paydesk/internal/domain/payroll"
)

// Store keeps payroll records in process memory in insertion order.
type Store struct {
	mu      sync.RWMutex
	records []payroll.Record
}

func New(seed ...payroll.Record) *Store {
	s := &Store{}
	for _, record := range seed {
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		s.records = append(s.records, record)
	}
	return s
}

func (s *Store) List(ctx context.Context) ([]payroll.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]payroll.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	if err := ctx.Err(); err != nil {
		return payroll.Record{}, err
	}
	record.ID = uuid.NewString()
	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()
	return record, nil
}

func (s *Store) Update(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	if err := ctx.Err(); err != nil {
		return payroll.Record{}, err
	}
	if record.ID == "" {
		return payroll.Record{}, &payroll.ValidationError{Violation: payroll.ViolationMissingIdentifier}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == record.ID {
			s.records[i] = record
			return record, nil
		}
	}
	return payroll.Record{}, payroll.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return payroll.ErrNotFound
}
