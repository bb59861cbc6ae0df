package storehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"paydesk/internal/domain/payroll"
	"paydesk/internal/domain/signature"
	"paydesk/internal/transport/http/api"
)

// Collection is the record set served over the Store contract. Writes run the
// same normalization, validation and totals as the application API.
type Collection interface {
	Status() payroll.Status
	LoadAll(ctx context.Context) error
	Records() []payroll.Record
	Add(ctx context.Context, record payroll.Record) (payroll.Record, error)
	Update(ctx context.Context, id string, record payroll.Record) (payroll.Record, error)
	Delete(ctx context.Context, id string) error
}

// Handler exposes a Collection over the plain REST contract used by the
// remote store client: bare JSON bodies, no envelope.
type Handler struct {
	Records Collection
}

func NewHandler(records Collection) *Handler {
	return &Handler{Records: records}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payrolls", h.Routes)
}

// Routes registers the collection routes on a router already mounted at the
// collection path.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if !h.Records.Status().Loaded {
		if err := h.Records.LoadAll(r.Context()); err != nil {
			h.fail(w, err)
			return
		}
	}
	records := h.Records.Records()
	if records == nil {
		records = []payroll.Record{}
	}
	api.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	record, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	created, err := h.Records.Add(r.Context(), record)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	record, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	updated, err := h.Records.Update(r.Context(), chi.URLParam(r, "id"), record)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Records.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeRecord reads a record body. Client-supplied totals are ignored; the
// repository recomputes them.
func decodeRecord(w http.ResponseWriter, r *http.Request) (payroll.Record, bool) {
	var record payroll.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request payload")
		return payroll.Record{}, false
	}
	if strings.TrimSpace(record.Signature) != "" {
		if _, err := signature.CheckImage(record.Signature); err != nil {
			writeMessage(w, http.StatusUnprocessableEntity, "Signature must be an image data URL of at most 2000x2000.")
			return payroll.Record{}, false
		}
	}
	record.ID = ""
	return record, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verr *payroll.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, payroll.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "payroll record not found")
	default:
		log.Error().Err(err).Msg("store request failed")
		writeMessage(w, http.StatusInternalServerError, "store request failed")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	api.WriteJSON(w, status, map[string]string{"message": message})
}
