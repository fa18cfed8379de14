package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Blackout é um bloqueio de agenda: a mesma faixa de horário repetida em
// todos os dias de DateStart a DateEnd (inclusive).
type Blackout struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	EstablishmentID uint `gorm:"index" json:"establishment_id"`
	ProfessionalID  uint `gorm:"index" json:"professional_id"`

	// Datas civis no formato 2006-01-02, comparáveis como string.
	DateStart string `gorm:"size:10;not null" json:"date_start"`
	DateEnd   string `gorm:"size:10;not null" json:"date_end"`

	TimeStart string `gorm:"size:5;not null" json:"time_start"`
	TimeEnd   string `gorm:"size:5;not null" json:"time_end"`

	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

func (b *Blackout) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
