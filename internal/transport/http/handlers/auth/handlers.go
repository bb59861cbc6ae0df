package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"paydesk/internal/app/controller"
	"paydesk/internal/domain/auth"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

type Handler struct {
	Controller *controller.Controller
	Tokens     *auth.Tokens
}

func NewHandler(ctrl *controller.Controller, tokens *auth.Tokens) *Handler {
	return &Handler{Controller: ctrl, Tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	State     controller.State `json:"state"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("username", payload.Username, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, reqID) {
		return
	}

	state, err := h.Controller.Login(r.Context(), controller.State{}, payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Str("requestId", reqID).Msg("login rejected")
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", state.Error, reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", reqID)
		return
	}

	token, expires, err := h.Tokens.Generate(state.Username)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}
	api.Success(w, loginResponse{Token: token, ExpiresAt: expires, State: state}, reqID)
}

// HandleLogout acknowledges a sign-out. Tokens are stateless, so the client
// discards its copy.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	state := h.Controller.Logout(controller.Resume(user))
	api.Success(w, state, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, controller.Resume(user), middleware.GetRequestID(r.Context()))
}
