package login

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/s4m/pharmacy/app/api"
	"github.com/s4m/pharmacy/models"
)

const (
	msgMissingCredentials = "Email and password are required"
	msgInvalidCredentials = "Invalid credentials"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (bool, error)
	Logout()
	CurrentUser() (*models.User, bool)
}

type LoginHandler struct {
	auth   Authenticator
	logger *slog.Logger
}

func NewLoginHandler(auth Authenticator, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{auth: auth, logger: logger}
}

func toResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role.String()}
}

func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input Credentials
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidJSON)
		return
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		api.WriteError(w, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	ok, err := h.auth.Login(r.Context(), email, input.Password)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "login failed", slog.Any("error", err))
		api.WriteError(w, http.StatusInternalServerError, api.MsgInternalFailure)
		return
	}
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	user, _ := h.auth.CurrentUser()
	api.WriteJSON(w, http.StatusOK, toResponse(user))
}

func (h *LoginHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the signed-in user.
func (h *LoginHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.auth.CurrentUser()
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, api.MsgAuthRequired)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(user))
}
