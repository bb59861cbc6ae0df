package signaturehandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/signature"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

const (
	maxDimension = signature.MaxImageDimension
	maxPoints    = 20000
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/signatures", h.handleRender)
}

// handleRender replays strokes captured by a client without a canvas and
// returns the resulting signature data URL.
func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var capture signature.Capture
	if err := json.NewDecoder(r.Body).Decode(&capture); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	if capture.Width < 0 || capture.Width > maxDimension {
		v.Add("width", "must be between 0 and 2000")
	}
	if capture.Height < 0 || capture.Height > maxDimension {
		v.Add("height", "must be between 0 and 2000")
	}
	points := 0
	for _, stroke := range capture.Strokes {
		points += len(stroke)
	}
	if points > maxPoints {
		v.Add("strokes", "too many points")
	}
	if capture.InitialSignature != "" {
		if _, err := signature.CheckImage(capture.InitialSignature); err != nil {
			v.Add("initialSignature", "must be a PNG, JPEG or WebP data URL of at most 2000x2000")
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	api.Success(w, signature.Render(capture), reqID)
}
