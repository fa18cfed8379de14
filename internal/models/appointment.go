package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	ProfessionalID uint `gorm:"index:idx_appointment_professional_start" json:"professional_id"`
	Professional   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	StartAt         time.Time `gorm:"index:idx_appointment_professional_start;not null" json:"start_at"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	// EndAt é derivado de StartAt + DurationMinutes; existe só para as
	// consultas de sobreposição no banco.
	EndAt time.Time `gorm:"not null" json:"end_at"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	Value         float64 `json:"value"`
	Prepaid       bool    `json:"prepaid"`
	PaymentStatus string  `gorm:"size:20;default:'pending'" json:"payment_status"`
	Notes         string  `gorm:"size:255" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CanceledAt  *time.Time `json:"canceled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.EndAt = a.End()
	return nil
}

func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.EndAt = a.End()
	return nil
}

// End devolve o fim (exclusivo) do intervalo ocupado.
func (a *Appointment) End() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
