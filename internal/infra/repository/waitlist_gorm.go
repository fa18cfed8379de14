package repository

import (
	"context"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

// --------------------------------------------------
// Waitlist
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateWaitlistEntry(
	ctx context.Context,
	w *models.WaitlistEntry,
) error {
	return r.db.WithContext(ctx).Omit("Client", "Service").Create(w).Error
}

func (r *AppointmentGormRepository) GetWaitlistEntry(
	ctx context.Context,
	establishmentID uint,
	entryID string,
) (*models.WaitlistEntry, error) {

	var w models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("id = ? AND establishment_id = ?", entryID, establishmentID).
		First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *AppointmentGormRepository) ListWaitlist(
	ctx context.Context,
	f domain.WaitlistFilter,
) ([]models.WaitlistEntry, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("establishment_id = ?", f.EstablishmentID)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ProfessionalID != nil {
		q = q.Where("professional_id = ? OR professional_id IS NULL", *f.ProfessionalID)
	}

	var out []models.WaitlistEntry
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentGormRepository) TransitionWaitlistEntry(
	ctx context.Context,
	establishmentID uint,
	entryID string,
	from string,
	to string,
	appointmentID *string,
) (bool, error) {

	updates := map[string]any{"status": to}
	if appointmentID != nil {
		updates["appointment_id"] = *appointmentID
	}

	res := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id = ? AND establishment_id = ? AND status = ?", entryID, establishmentID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
