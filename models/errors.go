package models

import "fmt"

// ErrNotFound is the root of every "no such row" error returned by the repositories.
var ErrNotFound = fmt.Errorf("record not found")

var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
)

func likePattern(term string) string {
	return "%" + term + "%"
}
