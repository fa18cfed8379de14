package dto

import (
	"time"

	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type AppointmentListDTO struct {
	ID              string    `json:"id"`
	ProfessionalID  uint      `json:"professional_id"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	ClientName      string    `json:"client_name"`
	ClientPhone     string    `json:"client_phone"`
	ServiceName     string    `json:"service_name"`
	ServiceColor    string    `json:"service_color,omitempty"`
	Value           float64   `json:"value"`
	Prepaid         bool      `json:"prepaid"`
	Notes           string    `json:"notes,omitempty"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:              ap.ID,
		ProfessionalID:  ap.ProfessionalID,
		StartAt:         ap.StartAt,
		EndAt:           ap.End(),
		DurationMinutes: ap.DurationMinutes,
		Status:          ap.Status,
		ClientName:      ap.Client.Name,
		ClientPhone:     ap.Client.Phone,
		ServiceName:     ap.Service.Name,
		ServiceColor:    ap.Service.Color,
		Value:           ap.Value,
		Prepaid:         ap.Prepaid,
		Notes:           ap.Notes,
	}
}

func NewAppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, NewAppointmentListDTO(ap))
	}
	return out
}
