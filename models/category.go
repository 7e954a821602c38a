package models

import "time"

// Category groups products of the same therapeutic family.
// Its name is unique across the pharmacy.
type Category struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"column:nom;type:varchar(100);uniqueIndex;not null" validate:"notblank"`
	Description *string `gorm:"column:description;type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Category) TableName() string {
	return "Categorie"
}
