package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the quantity under which a product is reported as low stock.
const LowStockThreshold = 10

// Product represents a stocked medicine or care product.
// Every product belongs to exactly one category.
type Product struct {
	ID             uint            `gorm:"primaryKey"`
	Name           string          `gorm:"column:nom;type:varchar(150);not null;index:idx_nom" validate:"notblank"`
	Description    *string         `gorm:"column:description;type:text"`
	Price          decimal.Decimal `gorm:"column:prix;type:decimal(10,2);not null;check:prix >= 0" validate:"gte=0"`
	Quantity       int             `gorm:"column:quantite;not null;default:0;check:quantite >= 0" validate:"gte=0"`
	ExpirationDate time.Time       `gorm:"column:date_expiration;type:date;not null;index:idx_date_expiration" validate:"required"`
	CategoryID     uint            `gorm:"column:id_categorie;not null;index:idx_categorie" validate:"gt=0"`
	Category       *Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" validate:"-"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Product) TableName() string {
	return "Produit"
}

// Date truncates t to a calendar day in UTC, the form expiration dates are stored and compared in.
func Date(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
