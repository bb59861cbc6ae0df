package observed

import (
	"context"
	"time"

	"paydesk/internal/domain/payroll"
	"paydesk/internal/requestctx"
)

// Recorder receives one observation per store call.
type Recorder interface {
	RecordStoreCall(op string, failed bool, duration time.Duration)
}

// Store wraps a payroll.Store with call metrics and debug logging.
type Store struct {
	next     payroll.Store
	recorder Recorder
	backend  string
}

func Wrap(next payroll.Store, recorder Recorder, backend string) *Store {
	return &Store{next: next, recorder: recorder, backend: backend}
}

func (s *Store) List(ctx context.Context) ([]payroll.Record, error) {
	start := time.Now()
	records, err := s.next.List(ctx)
	s.observe(ctx, payroll.OpList, "", start, err)
	return records, err
}

func (s *Store) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	start := time.Now()
	created, err := s.next.Create(ctx, record)
	s.observe(ctx, payroll.OpCreate, created.ID, start, err)
	return created, err
}

func (s *Store) Update(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	start := time.Now()
	updated, err := s.next.Update(ctx, record)
	s.observe(ctx, payroll.OpUpdate, record.ID, start, err)
	return updated, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.observe(ctx, payroll.OpDelete, id, start, err)
	return err
}

func (s *Store) observe(ctx context.Context, op, id string, start time.Time, err error) {
	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.RecordStoreCall(op, err != nil, elapsed)
	}
	logger := requestctx.Logger(ctx)
	logger.Debug().
		Str("backend", s.backend).
		Str("op", op).
		Str("id", id).
		Dur("elapsed", elapsed).
		Bool("failed", err != nil).
		Msg("payroll store call")
}
