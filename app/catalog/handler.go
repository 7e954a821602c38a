package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/s4m/pharmacy/app/api"
	"github.com/s4m/pharmacy/models"
)

const msgNotFound = "Product not found"

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Price          float64   `json:"price"`
	Quantity       int       `json:"quantity"`
	ExpirationDate string    `json:"expiration_date"`
	CategoryID     uint      `json:"category_id"`
	Category       *Category `json:"category,omitempty"`
	LowStock       bool      `json:"low_stock"`
}

// ProductRequest is the body of create and update calls. Dates use YYYY-MM-DD.
type ProductRequest struct {
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	ExpirationDate string          `json:"expiration_date"`
	CategoryID     uint            `json:"category_id"`
}

type ProductProvider interface {
	Add(ctx context.Context, product *models.Product) (uint, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	SearchByName(ctx context.Context, term string) ([]models.Product, error)
	SearchByCategory(ctx context.Context, categoryID uint) ([]models.Product, error)
	SearchByExpiration(ctx context.Context, date time.Time) ([]models.Product, error)
	ListExpiringBefore(ctx context.Context, date time.Time) ([]models.Product, error)
	ListLowStock(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type CatalogHandler struct {
	svc ProductProvider
}

func NewCatalogHandler(svc ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		svc: svc,
	}
}

func toProduct(p models.Product) Product {
	product := Product{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.InexactFloat64(),
		Quantity:       p.Quantity,
		ExpirationDate: api.FormatDate(p.ExpirationDate),
		CategoryID:     p.CategoryID,
		LowStock:       p.Quantity < models.LowStockThreshold,
	}
	if p.Category != nil {
		product.Category = &Category{ID: p.Category.ID, Name: p.Category.Name}
	}
	return product
}

func writeList(w http.ResponseWriter, res []models.Product) {
	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}
	api.WriteJSON(w, http.StatusOK, Response{
		Total:    len(products),
		Products: products,
	})
}

// HandleGet lists products. At most one filter applies, checked in this order:
// ?q= (name contains), ?category= (id), ?expires= (exact date), ?expiring_before= (date, inclusive).
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ctx := r.Context()

	var (
		res []models.Product
		err error
	)
	switch {
	case query.Get("q") != "":
		res, err = h.svc.SearchByName(ctx, query.Get("q"))
	case query.Get("category") != "":
		id, perr := api.ParseID(query.Get("category"))
		if perr != nil {
			api.WriteError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		res, err = h.svc.SearchByCategory(ctx, id)
	case query.Get("expires") != "":
		date, perr := api.ParseDate(query.Get("expires"))
		if perr != nil {
			api.WriteError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		res, err = h.svc.SearchByExpiration(ctx, date)
	case query.Get("expiring_before") != "":
		date, perr := api.ParseDate(query.Get("expiring_before"))
		if perr != nil {
			api.WriteError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		res, err = h.svc.ListExpiringBefore(ctx, date)
	default:
		res, err = h.svc.List(ctx)
	}
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	writeList(w, res)
}

func (h *CatalogHandler) HandleGetLowStock(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListLowStock(r.Context())
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	writeList(w, res)
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidID)
		return
	}

	product, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, toProduct(*product))
}

// decodeProduct reads a ProductRequest. An empty expiration date is left zero for the service to reject.
func decodeProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	var input ProductRequest
	if err := api.DecodeJSON(r, &input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidJSON)
		return nil, false
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		CategoryID:  input.CategoryID,
	}
	if input.ExpirationDate != "" {
		date, err := api.ParseDate(input.ExpirationDate)
		if err != nil {
			api.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{
				Error: "expiration_date must be a date formatted YYYY-MM-DD",
				Field: "expiration_date",
			})
			return nil, false
		}
		product.ExpirationDate = date
	}
	return product, true
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Add(r.Context(), product); err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toProduct(*product))
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidID)
		return
	}
	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	product.ID = id

	updated, err := h.svc.Update(r.Context(), product)
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	if !updated {
		api.WriteError(w, http.StatusNotFound, msgNotFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathID(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.MsgInvalidID)
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		api.WriteServiceError(w, err, msgNotFound)
		return
	}
	if !deleted {
		api.WriteError(w, http.StatusNotFound, msgNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
