package payrollhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"paydesk/internal/app/controller"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/domain/payslip"
	"paydesk/internal/domain/signature"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

const (
	maxPageSize     = 500
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	Controller *controller.Controller
	Repo       *payroll.Repository
	Payslip    payslip.Options
	Now        func() time.Time
}

func NewHandler(ctrl *controller.Controller, repo *payroll.Repository, opts payslip.Options) *Handler {
	return &Handler{Controller: ctrl, Repo: repo, Payslip: opts, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payrolls", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/draft", h.handleDraft)
		r.Post("/totals", h.handleTotals)
		r.Get("/status", h.handleStatus)
		r.Post("/reload", h.handleReload)
		r.Get("/export.xlsx", h.handleExportXLSX)
		r.Get("/export.csv", h.handleExportCSV)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Get("/{id}/payslip.pdf", h.handlePayslip)
	})
}

// amountValues accepts line items as JSON numbers or numeric strings.
type amountValues map[string]json.RawMessage

func (a amountValues) strings() map[string]string {
	out := make(map[string]string, len(a))
	for key, raw := range a {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			out[key] = text
			continue
		}
		var number json.Number
		if err := json.Unmarshal(raw, &number); err == nil {
			out[key] = number.String()
		}
	}
	return out
}

type recordPayload struct {
	PayrollNumber string       `json:"payrollNumber"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	Date          string       `json:"date"`
	Month         string       `json:"month"`
	PinNo         string       `json:"pinNo"`
	NSSFNo        string       `json:"nssfNo"`
	SHANo         string       `json:"shaNo"`
	Earnings      amountValues `json:"earnings"`
	Deductions    amountValues `json:"deductions"`
	Signature     string       `json:"signature"`
	Initials      string       `json:"initials"`
}

const maxNameLength = 100

func (p recordPayload) validate(v *shared.Validator) {
	v.Required("payrollNumber", p.PayrollNumber, "is required")
	v.MaxRunes("payrollNumber", p.PayrollNumber, 32, "must be at most 32 characters")
	for field, value := range map[string]string{"firstName": p.FirstName, "lastName": p.LastName} {
		if v.Required(field, value, "is required") {
			v.MaxRunes(field, value, maxNameLength, "must be at most 100 characters")
		}
	}
	if v.Required("date", p.Date, "is required") {
		v.Date("date", p.Date)
	}
	if v.Required("month", p.Month, "is required") {
		v.OneOf("month", p.Month, payroll.Months, "must be a month name")
	}
	// An empty signature is left to the repository's missing_signature rule.
	if strings.TrimSpace(p.Signature) != "" {
		_, err := signature.CheckImage(p.Signature)
		v.Check(err == nil, "signature", "must be a PNG, JPEG or WebP data URL of at most 2000x2000")
	}
}

func (p recordPayload) record() payroll.Record {
	return payroll.Record{
		PayrollNumber: strings.TrimSpace(p.PayrollNumber),
		FirstName:     strings.TrimSpace(p.FirstName),
		LastName:      strings.TrimSpace(p.LastName),
		Date:          strings.TrimSpace(p.Date),
		Month:         canonicalMonth(p.Month),
		PinNo:         strings.TrimSpace(p.PinNo),
		NSSFNo:        strings.TrimSpace(p.NSSFNo),
		SHANo:         strings.TrimSpace(p.SHANo),
		Earnings:      payroll.EarningsFromValues(p.Earnings.strings()),
		Deductions:    payroll.DeductionsFromValues(p.Deductions.strings()),
		Signature:     p.Signature,
		Initials:      p.Initials,
	}
}

func canonicalMonth(value string) string {
	value = strings.TrimSpace(value)
	for _, month := range payroll.Months {
		if strings.EqualFold(month, value) {
			return month
		}
	}
	return value
}

type listMeta struct {
	shared.Pagination
	Filter     payroll.Filter `json:"filter"`
	StoreError string         `json:"storeError,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	s, err := h.Controller.Navigate(h.session(r), controller.ViewReports)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	s.Filter = filterFromQuery(r)
	records, err := h.Controller.Reports(s)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page := shared.ParsePagination(r, maxPageSize)
	records = shared.Page(records, &page)
	api.SuccessWithMeta(w, records, listMeta{Pagination: page, Filter: s.Filter, StoreError: h.Repo.Err()}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.Controller.ViewDetails(h.session(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, s.Selected, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Controller.Navigate(h.session(r), controller.ViewDashboard); err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, payroll.NewDraft(h.Now(), nil), middleware.GetRequestID(r.Context()))
}

type totalsPayload struct {
	Earnings   amountValues `json:"earnings"`
	Deductions amountValues `json:"deductions"`
}

type totalsResponse struct {
	Earnings   payroll.Earnings   `json:"earnings"`
	Deductions payroll.Deductions `json:"deductions"`
	payroll.Totals
}

func (h *Handler) handleTotals(w http.ResponseWriter, r *http.Request) {
	var payload totalsPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	earnings := payroll.EarningsFromValues(payload.Earnings.strings())
	deductions := payroll.DeductionsFromValues(payload.Deductions.strings())
	api.Success(w, totalsResponse{
		Earnings:   earnings,
		Deductions: deductions,
		Totals:     payroll.ComputeTotals(earnings, deductions),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	payload.validate(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	_, saved, err := h.Controller.Submit(r.Context(), h.session(r), payload.record())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Created(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	payload.validate(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	s, err := h.Controller.Edit(h.session(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_, saved, err := h.Controller.Submit(r.Context(), s, payload.record())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if !confirmed {
		api.Fail(w, http.StatusConflict, "confirmation_required", "Are you sure you want to delete this payroll record?", middleware.GetRequestID(r.Context()))
		return
	}
	if _, err := h.Controller.Delete(r.Context(), h.session(r), id, true); err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"deleted": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Repo.Status(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.LoadAll(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, h.Repo.Status(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	s, err := h.Controller.ViewDetails(h.session(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := payslip.RenderPDF(&buf, *s.Selected, h.Payslip); err != nil {
		log.Error().Err(err).Str("id", s.Selected.ID).Msg("payslip render failed")
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="payslip-`+s.Selected.PayrollNumber+`.pdf"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	records, ok := h.exportRecords(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := payslip.WriteWorkbook(&buf, records, h.Payslip.Currency); err != nil {
		log.Error().Err(err).Msg("export register workbook failed")
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export register", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", "attachment; filename=payroll-register.xlsx")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	records, ok := h.exportRecords(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := payslip.WriteCSV(&buf, records); err != nil {
		log.Error().Err(err).Msg("export register csv failed")
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export register", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=payroll-register.csv")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) exportRecords(w http.ResponseWriter, r *http.Request) ([]payroll.Record, bool) {
	s := h.session(r)
	s.Filter = filterFromQuery(r)
	records, err := h.Controller.Reports(s)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return records, true
}

// session rebuilds the controller state for the signed-in user.
func (h *Handler) session(r *http.Request) controller.State {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return controller.State{}
	}
	return controller.Resume(user)
}

func filterFromQuery(r *http.Request) payroll.Filter {
	q := r.URL.Query()
	return payroll.Filter{Month: strings.TrimSpace(q.Get("month")), Year: strings.TrimSpace(q.Get("year"))}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request payload too large", middleware.GetRequestID(r.Context()))
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	var verr *payroll.ValidationError
	var ferr *payroll.FetchError
	switch {
	case errors.Is(err, controller.ErrUnauthenticated):
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
	case errors.As(err, &verr):
		api.Fail(w, http.StatusUnprocessableEntity, string(verr.Violation), verr.Error(), reqID)
	case errors.Is(err, payroll.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "Payroll not found.", reqID)
	case errors.As(err, &ferr):
		message := h.Repo.Err()
		if message == "" {
			message = ferr.Error()
		}
		api.Fail(w, http.StatusBadGateway, "store_unavailable", message, reqID)
	default:
		log.Error().Err(err).Str("requestId", reqID).Msg("payroll request failed")
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", reqID)
	}
}
