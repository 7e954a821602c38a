package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/s4m/pharmacy/models"
)

const unknownCategoryReason = "category_id does not match an existing category"

type ProductService struct {
	repo   *models.ProductsRepository
	logger *slog.Logger
}

func NewProductService(repo *models.ProductsRepository, logger *slog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// Add stores a new product and returns its id. The store assigns the id; any ID set by the
// caller is ignored and overwritten on success.
func (s *ProductService) Add(ctx context.Context, product *models.Product) (uint, error) {
	product.Name = strings.TrimSpace(product.Name)
	if err := validateStruct(product); err != nil {
		return 0, err
	}
	product.ID = 0

	if err := s.repo.Create(ctx, product); err != nil {
		if isForeignKeyConstraintViolation(err) {
			return 0, invalid("category_id", unknownCategoryReason)
		}
		return 0, storageFailure(ctx, s.logger, "add product", err)
	}
	return product.ID, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, storageFailure(ctx, s.logger, "get product", err)
	}
	return product, nil
}

// List returns every product ordered by name.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.find(ctx, "list products", models.ProductFilters{})
}

// SearchByName returns the products whose name contains term.
func (s *ProductService) SearchByName(ctx context.Context, term string) ([]models.Product, error) {
	return s.find(ctx, "search products by name", models.ProductFilters{NameContains: term})
}

func (s *ProductService) SearchByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	if categoryID == 0 {
		return nil, invalid("category_id", "category_id is required")
	}
	return s.find(ctx, "search products by category", models.ProductFilters{CategoryID: categoryID})
}

// SearchByExpiration returns the products expiring exactly on date.
func (s *ProductService) SearchByExpiration(ctx context.Context, date time.Time) ([]models.Product, error) {
	if date.IsZero() {
		return nil, invalid("expiration_date", "expiration_date is required")
	}
	return s.find(ctx, "search products by expiration", models.ProductFilters{ExpiresOn: &date})
}

// ListExpiringBefore returns the products expiring on or before date, soonest first.
func (s *ProductService) ListExpiringBefore(ctx context.Context, date time.Time) ([]models.Product, error) {
	if date.IsZero() {
		return nil, invalid("expiration_date", "expiration_date is required")
	}
	return s.find(ctx, "list expiring products", models.ProductFilters{
		ExpiresBefore: &date,
		OrderBy:       models.OrderByExpiration,
	})
}

// ListLowStock returns the products under the low stock threshold, smallest quantity first.
func (s *ProductService) ListLowStock(ctx context.Context) ([]models.Product, error) {
	threshold := models.LowStockThreshold
	return s.find(ctx, "list low stock", models.ProductFilters{
		QuantityBelow: &threshold,
		OrderBy:       models.OrderByQuantity,
	})
}

func (s *ProductService) find(ctx context.Context, op string, filters models.ProductFilters) ([]models.Product, error) {
	products, err := s.repo.GetFilteredProducts(ctx, filters)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, op, err)
	}
	return products, nil
}

// Update rewrites every editable field. It returns false when no product has that id.
func (s *ProductService) Update(ctx context.Context, product *models.Product) (bool, error) {
	product.Name = strings.TrimSpace(product.Name)
	if err := validateStruct(product); err != nil {
		return false, err
	}

	rows, err := s.repo.Update(ctx, product)
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return false, invalid("category_id", unknownCategoryReason)
		}
		return false, storageFailure(ctx, s.logger, "update product", err)
	}
	return rows > 0, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) (bool, error) {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, storageFailure(ctx, s.logger, "delete product", err)
	}
	return rows > 0, nil
}
