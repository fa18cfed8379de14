package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WaitlistWaiting  = "waiting"
	WaitlistPromoted = "promoted"
	WaitlistCanceled = "canceled"
)

// Períodos de preferência; vazio = qualquer horário.
const (
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
	PeriodEvening   = "evening"
)

// WaitlistEntry é um cliente esperando vaga para um serviço.
type WaitlistEntry struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	EstablishmentID uint `gorm:"index" json:"establishment_id"`

	ClientID uint   `gorm:"index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service,omitempty"`

	// ProfessionalID nil = qualquer profissional.
	ProfessionalID *uint `gorm:"index" json:"professional_id"`

	PreferredDate   string `gorm:"size:10" json:"preferred_date"`
	PreferredPeriod string `gorm:"size:10" json:"preferred_period"`
	Notes           string `gorm:"size:255" json:"notes"`

	Status        string  `gorm:"size:20;default:'waiting';index" json:"status"`
	AppointmentID *string `gorm:"size:36" json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
