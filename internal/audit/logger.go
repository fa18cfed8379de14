package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {

	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		EstablishmentID: ev.EstablishmentID,
		UserID:          ev.UserID,
		Action:          ev.Action,
		Entity:          ev.Entity,
		EntityID:        ev.EntityID,
		Metadata:        metaJSON,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

// Filter restringe a consulta de logs; EstablishmentID é obrigatório.
type Filter struct {
	EstablishmentID uint
	Action          string
	Entity          string
	From            *time.Time
	To              *time.Time

	Page  int
	Limit int
}

// Normalized aplica página 1 e limite 50 (máximo 200) quando ausentes.
func (f Filter) Normalized() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	return f
}

// List devolve uma página de registros, mais recentes primeiro, e o total.
func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	f = f.Normalized()

	q := l.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("establishment_id = ?", f.EstablishmentID)

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.AuditLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
