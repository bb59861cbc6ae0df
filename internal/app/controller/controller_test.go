package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/store/memory"
)

type flakyStore struct {
	*memory.Store
	createErr error
}

func (f *flakyStore) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	if f.createErr != nil {
		return payroll.Record{}, f.createErr
	}
	return f.Store.Create(ctx, record)
}

func newController(t *testing.T) (*Controller, *payroll.Repository, *flakyStore) {
	t.Helper()
	store := &flakyStore{Store: memory.New(
		payroll.Record{ID: "1", PayrollNumber: "POP001", FirstName: "John", Date: "2024-07-28", Month: "July", Signature: "sig"},
		payroll.Record{ID: "2", PayrollNumber: "POP002", FirstName: "Jane", Date: "2023-06-01", Month: "June", Signature: "sig"},
	)}
	repo := payroll.NewRepository(store)
	require.NoError(t, repo.LoadAll(context.Background()))
	authn, err := auth.NewStaticAuthenticator("admin", "pw")
	require.NoError(t, err)
	return New(repo, authn), repo, store
}

func TestLoginLogout(t *testing.T) {
	c, _, _ := newController(t)
	ctx := context.Background()

	s, err := c.Login(ctx, State{}, "admin", "nope")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.False(t, s.Authenticated)
	assert.Equal(t, "Invalid username or password", s.Error)

	s, err = c.Login(ctx, s, "admin", "pw")
	require.NoError(t, err)
	assert.True(t, s.Authenticated)
	assert.Equal(t, ViewDashboard, s.View)
	assert.Empty(t, s.Error)

	s = c.Logout(s)
	assert.False(t, s.Authenticated)
	_, err = c.Navigate(s, ViewReports)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestOperationsRequireAuthentication(t *testing.T) {
	c, _, _ := newController(t)
	ctx := context.Background()
	var s State

	_, err := c.ViewDetails(s, "1")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = c.Edit(s, "1")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, _, err = c.Submit(ctx, s, payroll.Record{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = c.Delete(ctx, s, "1", true)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = c.Reports(s)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestNavigateAndSelect(t *testing.T) {
	c, _, _ := newController(t)
	s := Resume("admin")

	s, err := c.Navigate(s, ViewReports)
	require.NoError(t, err)
	assert.Equal(t, ViewReports, s.View)

	s, err = c.Navigate(s, View("bogus"))
	require.NoError(t, err)
	assert.Equal(t, ViewDashboard, s.View)

	s, err = c.ViewDetails(s, "2")
	require.NoError(t, err)
	assert.Equal(t, ViewReportDetail, s.View)
	assert.Equal(t, "Jane", s.Selected.FirstName)

	before := s
	s, err = c.Edit(s, "missing")
	assert.ErrorIs(t, err, payroll.ErrNotFound)
	assert.Equal(t, before, s)
}

func TestSubmitAddsThenShowsReports(t *testing.T) {
	c, repo, _ := newController(t)
	s := Resume("admin")

	s, saved, err := c.Submit(context.Background(), s, payroll.Record{
		PayrollNumber: "POP003",
		Signature:     "sig",
		Earnings:      payroll.Earnings{BasicPay: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, ViewReports, s.View)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 100.0, saved.NetPay)
	assert.Len(t, repo.Records(), 3)
}

func TestSubmitValidationFailureKeepsView(t *testing.T) {
	c, repo, _ := newController(t)
	s := Resume("admin")

	s, _, err := c.Submit(context.Background(), s, payroll.Record{PayrollNumber: "POP001", Signature: "sig"})
	assert.True(t, payroll.IsViolation(err, payroll.ViolationDuplicatePayrollNumber))
	assert.Equal(t, ViewDashboard, s.View)
	assert.Equal(t, "Payroll Number must be unique.", s.Error)
	assert.Len(t, repo.Records(), 2)
}

func TestSubmitStoreFailureKeepsView(t *testing.T) {
	c, repo, store := newController(t)
	store.createErr = &payroll.FetchError{Op: payroll.OpCreate, StatusCode: 500}
	s := Resume("admin")

	s, _, err := c.Submit(context.Background(), s, payroll.Record{PayrollNumber: "POP009", Signature: "sig"})
	var ferr *payroll.FetchError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, ViewDashboard, s.View)
	assert.NotEmpty(t, s.Error)
	assert.Len(t, repo.Records(), 2)
}

func TestSubmitInEditViewUpdates(t *testing.T) {
	c, repo, _ := newController(t)
	s, err := c.Edit(Resume("admin"), "1")
	require.NoError(t, err)

	edited := *s.Selected
	edited.FirstName = "Johnny"
	s, saved, err := c.Submit(context.Background(), s, edited)
	require.NoError(t, err)
	assert.Equal(t, "1", saved.ID)
	assert.Equal(t, ViewReports, s.View)
	assert.Nil(t, s.Selected)

	found, err := repo.FindByID("1")
	require.NoError(t, err)
	assert.Equal(t, "Johnny", found.FirstName)
	assert.Len(t, repo.Records(), 2)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	c, repo, _ := newController(t)
	s, err := c.ViewDetails(Resume("admin"), "1")
	require.NoError(t, err)

	s, err = c.Delete(context.Background(), s, "1", false)
	require.NoError(t, err)
	assert.Len(t, repo.Records(), 2)
	assert.NotNil(t, s.Selected)

	s, err = c.Delete(context.Background(), s, "1", true)
	require.NoError(t, err)
	assert.Len(t, repo.Records(), 1)
	assert.Nil(t, s.Selected)
}

func TestReportsAppliesFilter(t *testing.T) {
	c, _, _ := newController(t)
	s := Resume("admin")
	s.Filter = payroll.Filter{Year: "2024"}

	records, err := c.Reports(s)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "POP001", records[0].PayrollNumber)

	s.Filter = payroll.Filter{Month: "JU"}
	records, err = c.Reports(s)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
