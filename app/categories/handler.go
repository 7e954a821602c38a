package categories

import (
	"context"
	"net/http"
	"strings"

	"github.com/s4m/pharmacy/app/api"
	"github.com/s4m/pharmacy/models"
)

const msgNotFound = "Category not found"

type CategoryResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CategoryProvider interface {
	Add(ctx context.Context, name string, description *string) (uint, error)
	Get(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Search(ctx context.Context, term string) ([]models.Category, error)
	Update(ctx context.Context, id uint, name string, description *string) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type CategoryHandler struct {
	svc CategoryProvider
}

func NewCategoryHandler(svc CategoryProvider) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func toResponse(c models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// HandleGetAll lists every category, or those whose name contains ?q=.
func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	var (
		categories []models.Category
		err        error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		categories, err = h.svc.Search(r.Context(), q)
	} else {
		categories, err = h.svc.List(r.Context())
	}
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(c)
	}
	api.WriteJSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidID)
		return
	}

	category, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(*category))
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CategoryRequest
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidJSON)
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	id, err := h.svc.Add(r.Context(), input.Name, input.Description)
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	api.WriteJSON(w, http.StatusCreated, CategoryResponse{ID: id, Name: input.Name, Description: input.Description})
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidID)
		return
	}
	var input CategoryRequest
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidJSON)
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	ok, err := h.svc.Update(r.Context(), id, input.Name, input.Description)
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	if !ok {
		api.WriteError(w, http.StatusNotFound, msgNotFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, CategoryResponse{ID: id, Name: input.Name, Description: input.Description})
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidID)
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
