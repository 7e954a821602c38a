package models

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ProductOrder selects the sort column of a filtered product listing.
type ProductOrder int

const (
	OrderByName ProductOrder = iota
	OrderByQuantity
	OrderByExpiration
)

type ProductsRepository struct {
	db *gorm.DB
}

// ProductFilters narrows a product listing. Zero values disable a filter.
type ProductFilters struct {
	NameContains  string
	CategoryID    uint
	ExpiresOn     *time.Time
	ExpiresBefore *time.Time
	QuantityBelow *int
	OrderBy       ProductOrder
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) Create(ctx context.Context, product *Product) error {
	product.ExpirationDate = Date(product.ExpirationDate)
	return r.db.WithContext(ctx).Omit("Category").Create(product).Error
}

func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	return r.GetFilteredProducts(ctx, ProductFilters{})
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, filters ProductFilters) ([]Product, error) {
	products := []Product{}
	query := r.db.WithContext(ctx).Model(&Product{}).Preload("Category")

	// Filter
	if filters.NameContains != "" {
		query = query.Where("nom LIKE ?", likePattern(filters.NameContains))
	}
	if filters.CategoryID != 0 {
		query = query.Where("id_categorie = ?", filters.CategoryID)
	}
	if filters.ExpiresOn != nil {
		query = query.Where("date_expiration = ?", Date(*filters.ExpiresOn))
	}
	if filters.ExpiresBefore != nil {
		query = query.Where("date_expiration <= ?", Date(*filters.ExpiresBefore))
	}
	if filters.QuantityBelow != nil {
		query = query.Where("quantite < ?", *filters.QuantityBelow)
	}

	switch filters.OrderBy {
	case OrderByQuantity:
		query = query.Order("quantite ASC").Order("nom")
	case OrderByExpiration:
		query = query.Order("date_expiration ASC").Order("nom")
	default:
		query = query.Order("nom")
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

// Update overwrites every editable column of the product and reports how many rows matched.
func (r *ProductsRepository) Update(ctx context.Context, product *Product) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"nom":             product.Name,
			"description":     product.Description,
			"prix":            product.Price,
			"quantite":        product.Quantity,
			"date_expiration": Date(product.ExpirationDate),
			"id_categorie":    product.CategoryID,
		})
	return res.RowsAffected, res.Error
}

func (r *ProductsRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Product{}, id)
	return res.RowsAffected, res.Error
}

func (r *ProductsRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Product{}).Count(&total).Error
	return total, err
}
