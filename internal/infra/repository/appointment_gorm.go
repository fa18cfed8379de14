package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Establishment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetEstablishmentByID(
	ctx context.Context,
	id uint,
) (*models.Establishment, error) {

	var est models.Establishment
	if err := r.db.WithContext(ctx).First(&est, id).Error; err != nil {
		return nil, err
	}
	return &est, nil
}

func (r *AppointmentGormRepository) GetEstablishmentBySlug(
	ctx context.Context,
	slug string,
) (*models.Establishment, error) {

	var est models.Establishment
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&est).Error; err != nil {
		return nil, err
	}
	return &est, nil
}

// --------------------------------------------------
// Service / Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	establishmentID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", serviceID, establishmentID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	establishmentID uint,
	professionalID uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Where(
			"id = ? AND establishment_id = ? AND role IN ? AND active = ?",
			professionalID,
			establishmentID,
			[]string{models.RoleAdmin, models.RoleProfessional},
			true,
		).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	establishmentID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("establishment_id = ? AND phone = ?", establishmentID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		EstablishmentID: establishmentID,
		Name:            name,
		Phone:           phone,
		Email:           email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	establishmentID uint,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("id = ? AND establishment_id = ?", appointmentID, establishmentID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(ap).Error
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	establishmentID uint,
	from time.Time,
	to time.Time,
	professionalID *uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"establishment_id = ? AND start_at < ? AND end_at > ?",
			establishmentID,
			to,
			from,
		)

	if professionalID != nil {
		q = q.Where("professional_id = ?", *professionalID)
	}

	var apps []models.Appointment
	if err := q.Order("start_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) LockProfessionalAppointments(
	ctx context.Context,
	professionalID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"professional_id = ? AND status <> ? AND start_at < ? AND end_at > ?",
			professionalID,
			string(domain.StatusCanceled),
			to,
			from,
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Blackout
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateBlackout(
	ctx context.Context,
	b *models.Blackout,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *AppointmentGormRepository) GetBlackout(
	ctx context.Context,
	establishmentID uint,
	blackoutID string,
) (*models.Blackout, error) {

	var b models.Blackout
	if err := r.db.WithContext(ctx).
		Where("id = ? AND establishment_id = ?", blackoutID, establishmentID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *AppointmentGormRepository) DeleteBlackout(
	ctx context.Context,
	establishmentID uint,
	blackoutID string,
) (*models.Blackout, error) {

	b, err := r.GetBlackout(ctx, establishmentID, blackoutID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(b).Error; err != nil {
		return nil, err
	}

	return b, nil
}

func (r *AppointmentGormRepository) ListBlackouts(
	ctx context.Context,
	establishmentID uint,
	fromDate string,
	toDate string,
	professionalID *uint,
) ([]models.Blackout, error) {

	q := r.db.WithContext(ctx).
		Where(
			"establishment_id = ? AND date_start <= ? AND date_end >= ?",
			establishmentID,
			toDate,
			fromDate,
		)

	if professionalID != nil {
		q = q.Where("professional_id = ?", *professionalID)
	}

	var out []models.Blackout
	if err := q.Order("date_start ASC, time_start ASC").Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	professionalID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &wh, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
