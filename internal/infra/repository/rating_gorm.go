package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

// --------------------------------------------------
// Rating
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateRating(
	ctx context.Context,
	rating *models.Rating,
) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *AppointmentGormRepository) GetRating(
	ctx context.Context,
	establishmentID uint,
	ratingID string,
) (*models.Rating, error) {

	var rating models.Rating
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", ratingID, establishmentID).
		First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *AppointmentGormRepository) GetRatingByAppointment(
	ctx context.Context,
	appointmentID string,
) (*models.Rating, error) {

	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// UpdateRating grava resposta e visibilidade; Select garante que false
// também seja escrito.
func (r *AppointmentGormRepository) UpdateRating(
	ctx context.Context,
	rating *models.Rating,
) error {
	return r.db.WithContext(ctx).
		Model(rating).
		Select("Reply", "RepliedAt", "Visible").
		Updates(rating).Error
}

func (r *AppointmentGormRepository) ListRatings(
	ctx context.Context,
	f domain.RatingFilter,
) ([]models.Rating, error) {

	q := r.db.WithContext(ctx).Where("establishment_id = ?", f.EstablishmentID)

	if f.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *f.ProfessionalID)
	}
	if f.OnlyVisible {
		q = q.Where("visible = ?", true)
	}

	var out []models.Rating
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
