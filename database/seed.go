package database

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/s4m/pharmacy/models"
)

// DefaultPasswordHash is the SHA-256 digest of "admin123", the password of both seeded accounts.
const DefaultPasswordHash = "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9"

func text(s string) *string { return &s }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func defaultCategories() []models.Category {
	return []models.Category{
		{Name: "Antibiotiques", Description: text("Médicaments pour traiter les infections bactériennes")},
		{Name: "Analgésiques", Description: text("Médicaments pour soulager la douleur")},
		{Name: "Vitamines", Description: text("Compléments vitaminiques et minéraux")},
		{Name: "Antihistaminiques", Description: text("Médicaments pour les allergies")},
		{Name: "Antiseptiques", Description: text("Produits pour désinfecter et nettoyer")},
	}
}

func defaultUsers() []models.User {
	return []models.User{
		{Name: "Administrateur", Email: "admin@pharmacy.com", PasswordHash: DefaultPasswordHash, Role: models.RoleAdmin},
		{Name: "Assistant", Email: "user@pharmacy.com", PasswordHash: DefaultPasswordHash, Role: models.RoleUser},
	}
}

// seedProduct references its category by position in the id-ordered category list.
type seedProduct struct {
	product       models.Product
	categoryIndex int
}

func defaultProducts() []seedProduct {
	return []seedProduct{
		{models.Product{
			Name: "Amoxicilline 500mg", Description: text("Antibiotique à large spectre"),
			Price: decimal.RequireFromString("15.50"), Quantity: 25, ExpirationDate: day(2025, time.December, 31),
		}, 0},
		{models.Product{
			Name: "Paracétamol 500mg", Description: text("Antalgique et antipyrétique"),
			Price: decimal.RequireFromString("3.20"), Quantity: 150, ExpirationDate: day(2026, time.June, 30),
		}, 1},
		{models.Product{
			Name: "Vitamine D3", Description: text("Complément en vitamine D"),
			Price: decimal.RequireFromString("8.75"), Quantity: 45, ExpirationDate: day(2025, time.October, 15),
		}, 2},
		{models.Product{
			Name: "Ibuprofène 400mg", Description: text("Anti-inflammatoire non stéroïdien"),
			Price: decimal.RequireFromString("4.50"), Quantity: 8, ExpirationDate: day(2025, time.September, 20),
		}, 1},
		{models.Product{
			Name: "Loratadine 10mg", Description: text("Antihistaminique"),
			Price: decimal.RequireFromString("6.30"), Quantity: 30, ExpirationDate: day(2026, time.March, 15),
		}, 3},
	}
}
