package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records []Record
	nextID  int

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	creates int
	updates int
	deletes int
}

func (f *fakeStore) List(context.Context) ([]Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Record(nil), f.records...), nil
}

func (f *fakeStore) Create(_ context.Context, record Record) (Record, error) {
	f.creates++
	if f.createErr != nil {
		return Record{}, f.createErr
	}
	f.nextID++
	record.ID = fmt.Sprintf("id-%d", f.nextID)
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeStore) Update(_ context.Context, record Record) (Record, error) {
	f.updates++
	if f.updateErr != nil {
		return Record{}, f.updateErr
	}
	for i := range f.records {
		if f.records[i].ID == record.ID {
			f.records[i] = record
			return record, nil
		}
	}
	return Record{}, ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func sampleRecord(number string) Record {
	return Record{
		PayrollNumber: number,
		FirstName:     "John",
		LastName:      "Doe",
		Date:          "2024-07-28",
		Month:         "July",
		Earnings:      Earnings{BasicPay: 50000, Overtime: 5000, HouseAllowance: 15000, TravelAllowance: 2000, Bonus: 1000},
		Deductions:    Deductions{PAYE: 7500, NSSF: 300, SHA: 200, HousingLevy: 150, Advances: 1000, LoanRepayments: 1000, Saccos: 1000},
		Signature:     "data:image/png;base64,AAAA",
		Initials:      "jd",
	}
}

func loadedRepository(t *testing.T, store *fakeStore) *Repository {
	t.Helper()
	repo := NewRepository(store)
	require.NoError(t, repo.LoadAll(context.Background()))
	return repo
}

func TestRepositoryLoadAll(t *testing.T) {
	store := &fakeStore{records: []Record{{ID: "x", PayrollNumber: "POP001"}}}
	repo := loadedRepository(t, store)

	assert.Len(t, repo.Records(), 1)
	assert.Equal(t, Status{Loaded: true, Count: 1}, repo.Status())
}

func TestRepositoryLoadAllFailure(t *testing.T) {
	store := &fakeStore{listErr: &FetchError{Op: OpList, StatusCode: 500}}
	repo := NewRepository(store)

	err := repo.LoadAll(context.Background())
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Empty(t, repo.Records())
	assert.Equal(t, "Failed to load payroll data.", repo.Err())
	assert.False(t, repo.Status().Loaded)
}

func TestRepositoryAddComputesTotalsAndAppends(t *testing.T) {
	store := &fakeStore{}
	repo := loadedRepository(t, store)

	record := sampleRecord("POP001")
	record.GrossPay = 1
	record.NetPay = 999999

	created, err := repo.Add(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, 73000.0, created.GrossPay)
	assert.Equal(t, 11150.0, created.TotalDeductions)
	assert.Equal(t, 61850.0, created.NetPay)
	assert.Equal(t, "JD", created.Initials)

	found, err := repo.FindByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, created, found)
	assert.Empty(t, repo.Err())
}

func TestRepositoryAddRejectsDuplicateWithoutStoreCall(t *testing.T) {
	store := &fakeStore{records: []Record{{ID: "a", PayrollNumber: "POP001"}}}
	repo := loadedRepository(t, store)

	_, err := repo.Add(context.Background(), sampleRecord("POP001"))
	assert.True(t, IsViolation(err, ViolationDuplicatePayrollNumber))
	assert.Zero(t, store.creates)
	assert.Len(t, repo.Records(), 1)
}

func TestRepositoryAddRejectsMissingSignatureWithoutStoreCall(t *testing.T) {
	store := &fakeStore{}
	repo := loadedRepository(t, store)

	record := sampleRecord("POP010")
	record.Signature = ""

	_, err := repo.Add(context.Background(), record)
	assert.True(t, IsViolation(err, ViolationMissingSignature))
	assert.Zero(t, store.creates)
	assert.Empty(t, repo.Records())
}

func TestRepositoryAddStoreFailureLeavesCollection(t *testing.T) {
	store := &fakeStore{createErr: errors.New("connection refused")}
	repo := loadedRepository(t, store)

	_, err := repo.Add(context.Background(), sampleRecord("POP001"))
	var ferr *FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, OpCreate, ferr.Op)
	assert.Empty(t, repo.Records())
	assert.Equal(t, "Failed to add payroll record: Failed to add payroll", repo.Err())
}

func TestRepositoryUpdateExcludesSelf(t *testing.T) {
	store := &fakeStore{}
	repo := loadedRepository(t, store)

	created, err := repo.Add(context.Background(), sampleRecord("POP001"))
	require.NoError(t, err)

	edit := created
	edit.Earnings.Bonus = 3000
	updated, err := repo.Update(context.Background(), created.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, 75000.0, updated.GrossPay)
	assert.Equal(t, 63850.0, updated.NetPay)

	found, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 75000.0, found.GrossPay)
	assert.Equal(t, 1, store.updates)
}

func TestRepositoryUpdateRejectsOtherRecordsNumber(t *testing.T) {
	store := &fakeStore{}
	repo := loadedRepository(t, store)

	first, err := repo.Add(context.Background(), sampleRecord("POP001"))
	require.NoError(t, err)
	second, err := repo.Add(context.Background(), sampleRecord("POP002"))
	require.NoError(t, err)

	second.PayrollNumber = first.PayrollNumber
	_, err = repo.Update(context.Background(), second.ID, second)
	assert.True(t, IsViolation(err, ViolationDuplicatePayrollNumber))
	assert.Zero(t, store.updates)
}

func TestRepositoryUpdateRequiresIdentifier(t *testing.T) {
	store := &fakeStore{}
	repo := loadedRepository(t, store)

	_, err := repo.Update(context.Background(), "", sampleRecord("POP001"))
	assert.True(t, IsViolation(err, ViolationMissingIdentifier))
	assert.Zero(t, store.updates)
}

func TestRepositoryUpdateStoreFailureKeepsPriorState(t *testing.T) {
	store := &fakeStore{}
	repo := loadedRepository(t, store)

	created, err := repo.Add(context.Background(), sampleRecord("POP001"))
	require.NoError(t, err)

	store.updateErr = &FetchError{Op: OpUpdate, StatusCode: 502}
	edit := created
	edit.FirstName = "Jack"
	_, err = repo.Update(context.Background(), created.ID, edit)
	require.Error(t, err)

	found, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "John", found.FirstName)
	assert.Equal(t, "Failed to update payroll record: Failed to update payroll", repo.Err())
}

func TestRepositoryUpdateAppendsRecordMissingLocally(t *testing.T) {
	stored := sampleRecord("POP009")
	stored.ID = "id-9"
	store := &fakeStore{records: []Record{stored}}
	repo := NewRepository(store)

	edit := sampleRecord("POP009")
	edit.FirstName = "Jack"
	updated, err := repo.Update(context.Background(), "id-9", edit)
	require.NoError(t, err)
	assert.Equal(t, "id-9", updated.ID)

	found, err := repo.FindByID("id-9")
	require.NoError(t, err)
	assert.Equal(t, "Jack", found.FirstName)
	assert.Equal(t, 73000.0, found.GrossPay)
	assert.Len(t, repo.Records(), 1)
	assert.Empty(t, repo.Err())
}

func TestRepositoryDelete(t *testing.T) {
	store := &fakeStore{}
	repo := loadedRepository(t, store)

	created, err := repo.Add(context.Background(), sampleRecord("POP001"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), created.ID))
	_, err = repo.FindByID(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, repo.IsPayrollNumberUnique("POP001", ""))
}

func TestRepositoryDeleteFailureKeepsRecord(t *testing.T) {
	store := &fakeStore{}
	repo := loadedRepository(t, store)

	created, err := repo.Add(context.Background(), sampleRecord("POP001"))
	require.NoError(t, err)

	store.deleteErr = &FetchError{Op: OpDelete, StatusCode: 500}
	err = repo.Delete(context.Background(), created.ID)
	require.Error(t, err)

	_, err = repo.FindByID(created.ID)
	assert.NoError(t, err)
	assert.Len(t, repo.Records(), 1)
	assert.NotEmpty(t, repo.Err())
}

func TestRepositorySuccessClearsPreviousError(t *testing.T) {
	store := &fakeStore{createErr: errors.New("boom")}
	repo := loadedRepository(t, store)

	_, err := repo.Add(context.Background(), sampleRecord("POP001"))
	require.Error(t, err)
	require.NotEmpty(t, repo.Err())

	store.createErr = nil
	_, err = repo.Add(context.Background(), sampleRecord("POP001"))
	require.NoError(t, err)
	assert.Empty(t, repo.Err())
}

func TestIsPayrollNumberUnique(t *testing.T) {
	store := &fakeStore{records: []Record{{ID: "a", PayrollNumber: "POP001"}}}
	repo := loadedRepository(t, store)

	assert.False(t, repo.IsPayrollNumberUnique("POP001", ""))
	assert.True(t, repo.IsPayrollNumberUnique("POP001", "a"))
	assert.True(t, repo.IsPayrollNumberUnique("POP002", ""))
}
