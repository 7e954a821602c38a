package models

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// User is an account allowed to sign in to the inventory.
// PasswordHash holds the digest only, the clear-text password is never kept.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"column:nom;type:varchar(100);not null" validate:"notblank"`
	Email        string `gorm:"column:email;type:varchar(150);uniqueIndex;not null" validate:"notblank,contains=@"`
	PasswordHash string `gorm:"column:mot_de_passe;type:varchar(255);not null" json:"-" validate:"-"`
	Role         Role   `gorm:"column:role;type:varchar(10);not null;default:USER;check:role IN ('ADMIN','USER')" validate:"required,oneof=ADMIN USER"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) TableName() string {
	return "Utilisateur"
}

// IsAdmin reports whether the user may manage other accounts.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
