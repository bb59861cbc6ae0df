package controller

import (
	"context"
	"errors"

	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/payroll"
)

var ErrUnauthenticated = errors.New("authentication required")

type View string

const (
	ViewDashboard    View = "dashboard"
	ViewReports      View = "reports"
	ViewReportDetail View = "report_detail"
	ViewEditPayroll  View = "edit_payroll"
)

func (v View) Valid() bool {
	switch v {
	case ViewDashboard, ViewReports, ViewReportDetail, ViewEditPayroll:
		return true
	}
	return false
}

// State is one operator session: who is signed in, what screen is showing
// and which record it is about.
type State struct {
	Authenticated bool            `json:"authenticated"`
	Username      string          `json:"username,omitempty"`
	View          View            `json:"view"`
	Selected      *payroll.Record `json:"selected,omitempty"`
	Filter        payroll.Filter  `json:"filter"`
	Error         string          `json:"error,omitempty"`
}

// Repository is the slice of payroll.Repository the controller drives.
type Repository interface {
	Add(ctx context.Context, record payroll.Record) (payroll.Record, error)
	Update(ctx context.Context, id string, record payroll.Record) (payroll.Record, error)
	Delete(ctx context.Context, id string) error
	FindByID(id string) (payroll.Record, error)
	Records() []payroll.Record
}

// Controller applies operator actions to a State. Every method returns the
// next state; on error the returned state is the one to keep showing.
type Controller struct {
	repo  Repository
	authn auth.Authenticator
}

func New(repo Repository, authn auth.Authenticator) *Controller {
	return &Controller{repo: repo, authn: authn}
}

func (c *Controller) Login(ctx context.Context, s State, username, password string) (State, error) {
	if err := c.authn.Authenticate(ctx, username, password); err != nil {
		s.Error = "Invalid username or password"
		return s, err
	}
	return State{Authenticated: true, Username: username, View: ViewDashboard}, nil
}

// Resume rebuilds an authenticated state for a user whose credentials were
// already verified, for example through a session token.
func Resume(username string) State {
	return State{Authenticated: true, Username: username, View: ViewDashboard}
}

func (c *Controller) Logout(State) State {
	return State{View: ViewDashboard}
}

func (c *Controller) Navigate(s State, view View) (State, error) {
	if !s.Authenticated {
		return s, ErrUnauthenticated
	}
	if !view.Valid() {
		view = ViewDashboard
	}
	s.View = view
	s.Error = ""
	return s, nil
}

func (c *Controller) ViewDetails(s State, id string) (State, error) {
	return c.selectRecord(s, id, ViewReportDetail)
}

func (c *Controller) Edit(s State, id string) (State, error) {
	return c.selectRecord(s, id, ViewEditPayroll)
}

func (c *Controller) selectRecord(s State, id string, view View) (State, error) {
	if !s.Authenticated {
		return s, ErrUnauthenticated
	}
	record, err := c.repo.FindByID(id)
	if err != nil {
		return s, err
	}
	s.Selected = &record
	s.View = view
	s.Error = ""
	return s, nil
}

// Submit saves the entry form. In the edit view with a selection it updates
// that record, otherwise it adds a new one. Success moves to the reports
// view; a failure keeps the current view and records the message.
func (c *Controller) Submit(ctx context.Context, s State, record payroll.Record) (State, payroll.Record, error) {
	if !s.Authenticated {
		return s, payroll.Record{}, ErrUnauthenticated
	}

	var saved payroll.Record
	var err error
	if s.View == ViewEditPayroll && s.Selected != nil {
		saved, err = c.repo.Update(ctx, s.Selected.ID, record)
	} else {
		saved, err = c.repo.Add(ctx, record)
	}
	if err != nil {
		s.Error = err.Error()
		return s, payroll.Record{}, err
	}

	s.View = ViewReports
	s.Selected = nil
	s.Error = ""
	return s, saved, nil
}

// Delete removes a record once the operator confirmed it; unconfirmed calls
// leave everything unchanged.
func (c *Controller) Delete(ctx context.Context, s State, id string, confirmed bool) (State, error) {
	if !s.Authenticated {
		return s, ErrUnauthenticated
	}
	if !confirmed {
		return s, nil
	}
	if err := c.repo.Delete(ctx, id); err != nil {
		s.Error = err.Error()
		return s, err
	}
	if s.Selected != nil && s.Selected.ID == id {
		s.Selected = nil
	}
	s.Error = ""
	return s, nil
}

// Reports returns the records matching the state's filter.
func (c *Controller) Reports(s State) ([]payroll.Record, error) {
	if !s.Authenticated {
		return nil, ErrUnauthenticated
	}
	return s.Filter.Apply(c.repo.Records()), nil
}
