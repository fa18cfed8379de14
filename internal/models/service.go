package models

import "time"

type Service struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	Name            string  `gorm:"size:100;not null" json:"name"`
	Description     string  `gorm:"size:255" json:"description"`
	DurationMinutes int     `json:"duration_minutes"`
	Value           float64 `json:"value"`
	Color           string  `gorm:"size:20" json:"color"`
	Category        string  `gorm:"size:50" json:"category"`
	Active          bool    `gorm:"default:true" json:"active"`

	RequiresPrepayment bool `json:"requires_prepayment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
