package payroll

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	msgLoadFailed = "Failed to load payroll data."
	msgAddFailed  = "Failed to add payroll record: "
	msgUpdFailed  = "Failed to update payroll record: "
	msgDelFailed  = "Failed to delete payroll record: "
)

// Repository owns the session's in-memory record collection and keeps it in
// step with the Store. The local collection only changes after the Store has
// confirmed a mutation.
type Repository struct {
	store Store

	// mutate serializes Store round trips so validation, the Store call and
	// the local reconcile happen as one step.
	mutate sync.Mutex

	mu      sync.RWMutex
	records []Record
	loaded  bool
	loading bool
	errMsg  string
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// LoadAll replaces the collection with the Store's records. On failure the
// collection is left empty and the load error message is set.
func (r *Repository) LoadAll(ctx context.Context) error {
	r.mutate.Lock()
	defer r.mutate.Unlock()

	r.mu.Lock()
	r.loading = true
	r.errMsg = ""
	r.mu.Unlock()

	records, err := r.store.List(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	if err != nil {
		ferr := asFetchError(OpList, err)
		log.Error().Err(err).Str("op", OpList).Msg("load payroll records failed")
		r.records = nil
		r.loaded = false
		r.errMsg = msgLoadFailed
		return ferr
	}
	r.records = append([]Record(nil), records...)
	r.loaded = true
	return nil
}

// Add validates the record, creates it in the Store and appends the stored
// record, with its assigned identifier, to the collection.
func (r *Repository) Add(ctx context.Context, record Record) (Record, error) {
	r.mutate.Lock()
	defer r.mutate.Unlock()

	record = record.Normalize()
	record.ID = ""
	if err := Validate(record, r.snapshot(), ""); err != nil {
		return Record{}, err
	}
	record = record.WithTotals()

	r.clearError()
	created, err := r.store.Create(ctx, record)
	if err != nil {
		return Record{}, r.fail(OpCreate, "", msgAddFailed, err)
	}

	r.mu.Lock()
	r.records = append(r.records, created)
	r.mu.Unlock()
	return created, nil
}

// Update validates the record with id excluded from the uniqueness check and
// replaces it in the Store and locally.
func (r *Repository) Update(ctx context.Context, id string, record Record) (Record, error) {
	r.mutate.Lock()
	defer r.mutate.Unlock()

	if id == "" {
		return Record{}, newViolation(ViolationMissingIdentifier)
	}
	record = record.Normalize()
	record.ID = id
	if err := Validate(record, r.snapshot(), id); err != nil {
		return Record{}, err
	}
	record = record.WithTotals()

	r.clearError()
	updated, err := r.store.Update(ctx, record)
	if err != nil {
		return Record{}, r.fail(OpUpdate, id, msgUpdFailed, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			r.records[i] = updated
			return updated, nil
		}
	}
	// The Store confirmed a record this collection never loaded.
	log.Warn().Str("id", id).Msg("updated payroll record missing locally, appending")
	r.records = append(r.records, updated)
	return updated, nil
}

// Delete removes the record from the Store and then from the collection.
// Confirmation is the caller's concern.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mutate.Lock()
	defer r.mutate.Unlock()

	r.clearError()
	if err := r.store.Delete(ctx, id); err != nil {
		return r.fail(OpDelete, id, msgDelFailed, err)
	}

	r.mu.Lock()
	kept := r.records[:0]
	for _, record := range r.records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	r.records = kept
	r.mu.Unlock()
	return nil
}

func (r *Repository) FindByID(id string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.records {
		if record.ID == id {
			return record, nil
		}
	}
	return Record{}, ErrNotFound
}

func (r *Repository) IsPayrollNumberUnique(number, excludeID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return payrollNumberUnique(r.records, number, excludeID)
}

// Records returns a copy of the collection in insertion order.
func (r *Repository) Records() []Record {
	return r.snapshot()
}

// Err returns the message of the last failed Store call, or empty.
func (r *Repository) Err() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.errMsg
}

type Status struct {
	Loaded  bool   `json:"loaded"`
	Loading bool   `json:"loading"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

func (r *Repository) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Status{Loaded: r.loaded, Loading: r.loading, Count: len(r.records), Error: r.errMsg}
}

func (r *Repository) snapshot() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Repository) clearError() {
	r.mu.Lock()
	r.errMsg = ""
	r.mu.Unlock()
}

func (r *Repository) fail(op, id, prefix string, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	ferr := asFetchError(op, err)
	log.Error().Err(err).Str("op", op).Str("id", id).Int("status", ferr.StatusCode).Msg("payroll store call failed")
	r.mu.Lock()
	r.errMsg = prefix + ferr.Error()
	r.mu.Unlock()
	return ferr
}
