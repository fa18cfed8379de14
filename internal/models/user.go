package models

import "time"

const (
	RoleAdmin        = "admin"
	RoleProfessional = "professional"
	RoleClient       = "client"
)

type User struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	EstablishmentID uint          `gorm:"index" json:"establishment_id"`
	Establishment   Establishment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'admin'" json:"role"`
	Profession   string `gorm:"size:100" json:"profession"`
	PhotoURL     string `gorm:"size:255" json:"photo_url"`
	Active       bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
