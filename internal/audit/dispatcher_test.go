package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))
	return db
}

func TestDispatcher_WritesEventsOnClose(t *testing.T) {
	db := newTestDB(t)
	logger := New(db)
	d := NewDispatcher(logger, zerolog.Nop())

	uid := uint(7)
	d.Dispatch(Event{
		EstablishmentID: 1,
		UserID:          &uid,
		Action:          ActionBlackoutCreated,
		Entity:          "blackout",
		EntityID:        "b-1",
		Metadata:        map[string]string{"reason": "Férias"},
	})
	d.Dispatch(Event{
		EstablishmentID: 1,
		Action:          ActionAppointmentCreated,
		Entity:          "appointment",
		EntityID:        "a-1",
	})
	d.Close()

	rows, total, err := logger.List(context.Background(), Filter{EstablishmentID: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), total)

	filtered, _, err := logger.List(context.Background(), Filter{EstablishmentID: 1, Action: ActionBlackoutCreated, Limit: 10})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b-1", filtered[0].EntityID)
	assert.JSONEq(t, `{"reason":"Férias"}`, filtered[0].Metadata)
	require.NotNil(t, filtered[0].UserID)
	assert.Equal(t, uint(7), *filtered[0].UserID)

	other, total, err := logger.List(context.Background(), Filter{EstablishmentID: 2})
	require.NoError(t, err)
	assert.Empty(t, other)
	assert.Zero(t, total)

	page2, total, err := logger.List(context.Background(), Filter{EstablishmentID: 1, Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, page2, 1)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: ActionAppointmentCreated})
		d.Close()
	})
}

func TestDispatcher_DispatchAfterCloseIsDropped(t *testing.T) {
	db := newTestDB(t)
	logger := New(db)
	d := NewDispatcher(logger, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.Dispatch(Event{EstablishmentID: 1, Action: ActionAppointmentCreated, Entity: "appointment"})
			}
		}()
	}

	assert.NotPanics(t, func() {
		d.Close()
		d.Dispatch(Event{EstablishmentID: 1, Action: ActionBlackoutDeleted, Entity: "blackout"})
		d.Close()
	})
	wg.Wait()

	rows, _, err := logger.List(context.Background(), Filter{EstablishmentID: 1, Action: ActionBlackoutDeleted})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
