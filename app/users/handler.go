package users

import (
	"context"
	"net/http"

	"github.com/s4m/pharmacy/app/api"
	"github.com/s4m/pharmacy/models"
)

const (
	msgNotFound   = "User not found"
	msgDeleteSelf = "You cannot delete your own account"
)

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type PasswordRequest struct {
	Password string `json:"password"`
}

type UserProvider interface {
	Add(ctx context.Context, user *models.User, password string) (uint, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Search(ctx context.Context, term string) ([]models.User, error)
	Update(ctx context.Context, user *models.User) (bool, error)
	ChangePassword(ctx context.Context, id uint, password string) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// SessionStore is the signed-in slot, rewritten when the signed-in account is edited.
type SessionStore interface {
	api.SessionReader
	Set(user *models.User)
}

// UserHandler serves account management. Routes are expected behind an admin check.
type UserHandler struct {
	svc      UserProvider
	sessions SessionStore
}

func NewUserHandler(svc UserProvider, sessions SessionStore) *UserHandler {
	return &UserHandler{svc: svc, sessions: sessions}
}

func toResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role.String()}
}

func (h *UserHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	var (
		users []models.User
		err   error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		users, err = h.svc.Search(r.Context(), q)
	} else {
		users, err = h.svc.List(r.Context())
	}
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}

	response := make([]UserResponse, len(users))
	for i, u := range users {
		response[i] = toResponse(u)
	}
	api.WriteJSON(w, http.StatusOK, response)
}

func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidID)
		return
	}

	user, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(*user))
}

func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateUserRequest
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidJSON)
		return
	}

	user := &models.User{Name: input.Name, Email: input.Email, Role: models.Role(input.Role)}
	if _, err := h.svc.Add(r.Context(), user, input.Password); err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toResponse(*user))
}

func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidID)
		return
	}
	var input UpdateUserRequest
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidJSON)
		return
	}

	user := &models.User{ID: id, Name: input.Name, Email: input.Email, Role: models.Role(input.Role)}
	ok, err := h.svc.Update(r.Context(), user)
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	if !ok {
		api.WriteError(w, http.StatusNotFound, msgNotFound)
		return
	}
	h.refreshSession(user)
	api.WriteJSON(w, http.StatusOK, toResponse(*user))
}

// refreshSession carries an edit of the signed-in account over to the session.
func (h *UserHandler) refreshSession(updated *models.User) {
	current, ok := h.sessions.Current()
	if !ok || current.ID != updated.ID {
		return
	}
	current.Name = updated.Name
	current.Email = updated.Email
	current.Role = updated.Role
	h.sessions.Set(current)
}

// HandleChangePassword replaces the password of any account; the previous one is not asked for.
func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidID)
		return
	}
	var input PasswordRequest
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidJSON)
		return
	}

	ok, err := h.svc.ChangePassword(r.Context(), id, input.Password)
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	if !ok {
		api.WriteError(w, http.StatusNotFound, msgNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidID)
		return
	}
	if current, ok := h.sessions.Current(); ok && current.ID == id {
		api.WriteError(w, http.StatusBadRequest, msgDeleteSelf)
		return
	}

	ok, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	if !ok {
		api.WriteError(w, http.StatusNotFound, msgNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
