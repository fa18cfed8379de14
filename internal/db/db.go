package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/gestao-agenda/internal/config"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
)

func NewDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	if err := conn.Model(&models.Establishment{}).
		Where("timezone IS NULL OR timezone = ''").
		Update("timezone", timezone.DefaultTimezone).Error; err != nil {
		return nil, fmt.Errorf("backfill timezone: %w", err)
	}

	for _, stmt := range overlapConstraintSQL {
		if err := conn.Exec(stmt).Error; err != nil {
			log.Warn().Err(err).Msg("appointment overlap constraint not installed")
			break
		}
	}

	return conn, nil
}

// Última barreira contra sobreposição no Postgres: dois agendamentos não
// cancelados do mesmo profissional não podem cruzar. Violação chega como
// SQLSTATE 23P01.
var overlapConstraintSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
	) THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (
				professional_id WITH =,
				tstzrange(start_at, end_at, '[)') WITH &&
			) WHERE (status <> 'canceled');
	END IF;
END $$`,
}

// Migrate cria ou atualiza as tabelas de todos os modelos.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.Establishment{},
		&models.User{},
		&models.Service{},
		&models.WorkingHours{},
		&models.Client{},
		&models.Appointment{},
		&models.Blackout{},
		&models.WaitlistEntry{},
		&models.Rating{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
