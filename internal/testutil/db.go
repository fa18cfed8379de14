// Package testutil monta banco SQLite em memória e dados base para testes.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/gestao-agenda/internal/db"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

const Password = "segredo123"

func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(conn))
	return conn
}

type Fixture struct {
	Establishment models.Establishment
	Admin         models.User
	Professional  models.User
	Other         models.User
	Client        models.Client
	Service       models.Service
}

// Seed cria um estabelecimento em America/Sao_Paulo com grade 8-20/30,
// um admin, dois profissionais, um cliente e um serviço de 60 min.
func Seed(t *testing.T, conn *gorm.DB) Fixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	f := Fixture{}
	f.Establishment = models.Establishment{
		Name:              "Studio Bela",
		Slug:              "studio-bela",
		Timezone:          "America/Sao_Paulo",
		MinAdvanceMinutes: 120,
		GridOpenHour:      8,
		GridCloseHour:     20,
		GridStepMinutes:   30,
	}
	require.NoError(t, conn.Create(&f.Establishment).Error)

	mk := func(name, email, role string) models.User {
		u := models.User{
			EstablishmentID: f.Establishment.ID,
			Name:            name,
			Email:           email,
			PasswordHash:    string(hash),
			Role:            role,
			Active:          true,
		}
		require.NoError(t, conn.Create(&u).Error)
		return u
	}
	f.Admin = mk("Marta", "marta@studio.com", models.RoleAdmin)
	f.Professional = mk("Ana", "ana@studio.com", models.RoleProfessional)
	f.Other = mk("Bia", "bia@studio.com", models.RoleProfessional)

	f.Client = models.Client{EstablishmentID: f.Establishment.ID, Name: "Carla", Phone: "11999990000"}
	require.NoError(t, conn.Create(&f.Client).Error)

	f.Service = models.Service{
		EstablishmentID: f.Establishment.ID,
		Name:            "Corte",
		DurationMinutes: 60,
		Value:           80,
		Active:          true,
	}
	require.NoError(t, conn.Create(&f.Service).Error)

	return f
}
