package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating é a avaliação de um atendimento concluído; uma por agendamento.
type Rating struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	AppointmentID  string `gorm:"size:36;uniqueIndex" json:"appointment_id"`
	ProfessionalID uint   `gorm:"index" json:"professional_id"`
	ClientID       uint   `json:"client_id"`
	ServiceID      uint   `json:"service_id"`

	Score   int    `gorm:"not null" json:"score"`
	Comment string `gorm:"size:1000" json:"comment"`

	Reply     string     `gorm:"size:1000" json:"reply"`
	RepliedAt *time.Time `json:"replied_at"`

	Visible bool `gorm:"default:true" json:"visible"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
