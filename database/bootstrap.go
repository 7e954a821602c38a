package database

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/s4m/pharmacy/config"
	"github.com/s4m/pharmacy/models"
)

// Bootstrap creates the tables when missing and seeds each empty table with the default data.
// It is safe to run on every start.
func Bootstrap(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&models.Category{}, &models.User{}, &models.Product{}); err != nil {
		return errors.Wrap(err, "migrate schema")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedCategories(ctx, models.NewCategoriesRepository(tx), logger); err != nil {
			return err
		}
		if err := seedUsers(ctx, models.NewUsersRepository(tx), logger); err != nil {
			return err
		}
		return seedProducts(ctx, tx, models.NewProductsRepository(tx), logger)
	})
}

func seedCategories(ctx context.Context, repo *models.CategoriesRepository, logger *slog.Logger) error {
	total, err := repo.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "count categories")
	}
	if total > 0 {
		return nil
	}

	categories := defaultCategories()
	for i := range categories {
		if err := repo.CreateCategory(ctx, &categories[i]); err != nil {
			return errors.Wrapf(err, "seed category %s", categories[i].Name)
		}
	}
	logger.InfoContext(ctx, "seeded categories", slog.Int("count", len(categories)))
	return nil
}

func seedUsers(ctx context.Context, repo *models.UsersRepository, logger *slog.Logger) error {
	total, err := repo.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "count users")
	}
	if total > 0 {
		return nil
	}

	users := defaultUsers()
	for i := range users {
		if err := repo.Create(ctx, &users[i]); err != nil {
			return errors.Wrapf(err, "seed user %s", users[i].Email)
		}
	}
	logger.InfoContext(ctx, "seeded users", slog.Int("count", len(users)))
	return nil
}

func seedProducts(ctx context.Context, tx *gorm.DB, repo *models.ProductsRepository, logger *slog.Logger) error {
	total, err := repo.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "count products")
	}
	if total > 0 {
		return nil
	}

	var categories []models.Category
	if err := tx.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return errors.Wrap(err, "list categories")
	}

	seeded := 0
	for _, s := range defaultProducts() {
		if s.categoryIndex >= len(categories) {
			logger.WarnContext(ctx, "skipping seed product without category",
				slog.String("product", s.product.Name), slog.Int("category_position", s.categoryIndex))
			continue
		}
		product := s.product
		product.CategoryID = categories[s.categoryIndex].ID
		if err := repo.Create(ctx, &product); err != nil {
			return errors.Wrapf(err, "seed product %s", product.Name)
		}
		seeded++
	}
	logger.InfoContext(ctx, "seeded products", slog.Int("count", seeded))
	return nil
}

// Setup runs the full start-up sequence: create the database when missing, open the pool and
// bootstrap the schema. Failures are logged and returned.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	if err := EnsureDatabase(ctx, cfg.Database, logger); err != nil {
		logger.ErrorContext(ctx, "database creation failed", slog.Any("error", err))
		return nil, err
	}

	db, err := Open(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "database connection failed", slog.Any("error", err))
		return nil, err
	}

	if err := Bootstrap(ctx, db, logger); err != nil {
		logger.ErrorContext(ctx, "database bootstrap failed", slog.Any("error", err))
		_ = Close(db)
		return nil, err
	}
	return db, nil
}
