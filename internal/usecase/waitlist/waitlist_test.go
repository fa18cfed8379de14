package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/infra/repository"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/testutil"
	appointmentuc "github.com/BruksfildServices01/gestao-agenda/internal/usecase/appointment"
)

const testDate = "2030-03-11" // segunda-feira

type env struct {
	db      *gorm.DB
	f       testutil.Fixture
	repo    *repository.AppointmentGormRepository
	create  *CreateEntry
	list    *ListEntries
	promote *PromoteEntry
	cancel  *CancelEntry
	book    *appointmentuc.CreateAppointment
}

func newEnv(t *testing.T) *env {
	db := testutil.NewDB(t)
	repo := repository.NewAppointmentGormRepository(db)
	book := appointmentuc.NewCreateAppointment(repo, nil, nil, nil)

	return &env{
		db:      db,
		f:       testutil.Seed(t, db),
		repo:    repo,
		create:  NewCreateEntry(repo, nil),
		list:    NewListEntries(repo),
		promote: NewPromoteEntry(repo, book, nil),
		cancel:  NewCancelEntry(repo, nil),
		book:    book,
	}
}

func (e *env) input() CreateEntryInput {
	return CreateEntryInput{
		EstablishmentID: e.f.Establishment.ID,
		ActorID:         &e.f.Admin.ID,
		ServiceID:       e.f.Service.ID,
		ClientName:      "Davi",
		ClientPhone:     "11888880000",
		PreferredDate:   testDate,
		PreferredPeriod: " Morning ",
		Notes:           "Prefere cedo",
	}
}

func (e *env) mustCreate(t *testing.T, in CreateEntryInput) *models.WaitlistEntry {
	t.Helper()
	entry, err := e.create.Execute(context.Background(), in)
	require.NoError(t, err)
	return entry
}

func (e *env) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

// ======================================================
// Create / List
// ======================================================

func TestCreateEntry(t *testing.T) {
	e := newEnv(t)

	entry := e.mustCreate(t, e.input())

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, models.WaitlistWaiting, entry.Status)
	assert.Equal(t, models.PeriodMorning, entry.PreferredPeriod)
	assert.Equal(t, testDate, entry.PreferredDate)
	assert.Nil(t, entry.ProfessionalID)
	assert.Equal(t, "Davi", entry.Client.Name)
	assert.Equal(t, "Corte", entry.Service.Name)

	// mesmo telefone reaproveita o cliente
	in := e.input()
	in.ClientPhone = e.f.Client.Phone
	again := e.mustCreate(t, in)
	assert.Equal(t, e.f.Client.ID, again.ClientID)
}

func TestCreateEntry_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	before := e.count(t, &models.Client{})

	cases := map[string]func(*CreateEntryInput){
		"invalid_period":         func(in *CreateEntryInput) { in.PreferredPeriod = "madrugada" },
		"invalid_date":           func(in *CreateEntryInput) { in.PreferredDate = "11/03/2030" },
		"service_not_found":      func(in *CreateEntryInput) { in.ServiceID = 999 },
		"professional_not_found": func(in *CreateEntryInput) { id := uint(999); in.ProfessionalID = &id },
		"invalid_client":         func(in *CreateEntryInput) { in.ClientPhone = "  " },
	}

	for code, mutate := range cases {
		t.Run(code, func(t *testing.T) {
			in := e.input()
			mutate(&in)
			_, err := e.create.Execute(ctx, in)
			assert.True(t, httperr.IsBusiness(err, code), err)
		})
	}

	assert.Equal(t, before, e.count(t, &models.Client{}))
	assert.Zero(t, e.count(t, &models.WaitlistEntry{}))
}

func TestCreateEntry_ProfessionalScope(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := e.input()
	in.ProfessionalScope = &e.f.Professional.ID
	entry := e.mustCreate(t, in)
	require.NotNil(t, entry.ProfessionalID)
	assert.Equal(t, e.f.Professional.ID, *entry.ProfessionalID)

	in.ProfessionalID = &e.f.Other.ID
	_, err := e.create.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "professional_not_found"))
}

func TestListEntries(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	estID := e.f.Establishment.ID

	open := e.mustCreate(t, e.input())

	mine := e.input()
	mine.ProfessionalID = &e.f.Professional.ID
	e.mustCreate(t, mine)

	theirs := e.input()
	theirs.ProfessionalID = &e.f.Other.ID
	e.mustCreate(t, theirs)

	all, err := e.list.Execute(ctx, estID, nil, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// profissional vê os próprios e os sem profissional
	scoped, err := e.list.Execute(ctx, estID, &e.f.Professional.ID, "")
	require.NoError(t, err)
	assert.Len(t, scoped, 2)

	require.NoError(t, e.cancel.Execute(ctx, estID, nil, nil, open.ID))

	waiting, err := e.list.Execute(ctx, estID, nil, "waiting")
	require.NoError(t, err)
	assert.Len(t, waiting, 2)

	canceled, err := e.list.Execute(ctx, estID, nil, "canceled")
	require.NoError(t, err)
	require.Len(t, canceled, 1)
	assert.Equal(t, open.ID, canceled[0].ID)

	everything, err := e.list.Execute(ctx, estID, nil, "all")
	require.NoError(t, err)
	assert.Len(t, everything, 3)

	_, err = e.list.Execute(ctx, estID, nil, "lost")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

// ======================================================
// Promote
// ======================================================

func TestPromoteEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	entry := e.mustCreate(t, e.input())

	got, ap, err := e.promote.Execute(ctx, PromoteEntryInput{
		EstablishmentID: e.f.Establishment.ID,
		ActorID:         &e.f.Admin.ID,
		EntryID:         entry.ID,
		ProfessionalID:  e.f.Professional.ID,
		Time:            "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, models.WaitlistPromoted, got.Status)
	require.NotNil(t, got.AppointmentID)
	assert.Equal(t, ap.ID, *got.AppointmentID)
	assert.Equal(t, entry.ClientID, ap.ClientID)
	assert.Equal(t, e.f.Professional.ID, ap.ProfessionalID)
	assert.Equal(t, "Prefere cedo", ap.Notes)

	loc, _ := time.LoadLocation("America/Sao_Paulo")
	assert.True(t, ap.StartAt.Equal(time.Date(2030, 3, 11, 10, 0, 0, 0, loc)))

	stored, err := e.repo.GetWaitlistEntry(ctx, e.f.Establishment.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WaitlistPromoted, stored.Status)
	require.NotNil(t, stored.AppointmentID)
	assert.Equal(t, ap.ID, *stored.AppointmentID)

	_, _, err = e.promote.Execute(ctx, PromoteEntryInput{
		EstablishmentID: e.f.Establishment.ID,
		EntryID:         entry.ID,
		ProfessionalID:  e.f.Professional.ID,
		Time:            "14:00",
	})
	assert.True(t, httperr.IsBusiness(err, "waitlist_entry_not_waiting"))
}

func TestPromoteEntry_ConflictKeepsEntryWaiting(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.book.Execute(ctx, appointmentuc.CreateAppointmentInput{
		EstablishmentID: e.f.Establishment.ID,
		Source:          appointmentuc.SourceStaff,
		ProfessionalID:  e.f.Professional.ID,
		ServiceID:       e.f.Service.ID,
		ClientName:      "Carla",
		ClientPhone:     e.f.Client.Phone,
		Date:            testDate,
		Time:            "10:00",
	})
	require.NoError(t, err)

	in := e.input()
	in.ClientName, in.ClientPhone = "Novo", "11777770000"
	in.ProfessionalID = &e.f.Professional.ID
	entry := e.mustCreate(t, in)

	_, _, err = e.promote.Execute(ctx, PromoteEntryInput{
		EstablishmentID: e.f.Establishment.ID,
		EntryID:         entry.ID,
		Time:            "10:30",
	})
	require.True(t, httperr.IsBusiness(err, "overlaps_appointment"), err)

	stored, err := e.repo.GetWaitlistEntry(ctx, e.f.Establishment.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WaitlistWaiting, stored.Status)
	assert.Nil(t, stored.AppointmentID)
	assert.Equal(t, int64(1), e.count(t, &models.Appointment{}))

	// horário livre usa o profissional do item
	_, ap, err := e.promote.Execute(ctx, PromoteEntryInput{
		EstablishmentID: e.f.Establishment.ID,
		EntryID:         entry.ID,
		Time:            "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, e.f.Professional.ID, ap.ProfessionalID)
}

func TestPromoteEntry_ProfessionalRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	entry := e.mustCreate(t, e.input())

	_, _, err := e.promote.Execute(ctx, PromoteEntryInput{
		EstablishmentID: e.f.Establishment.ID,
		EntryID:         entry.ID,
		Time:            "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "professional_required"))

	_, _, err = e.promote.Execute(ctx, PromoteEntryInput{
		EstablishmentID:   e.f.Establishment.ID,
		ProfessionalScope: &e.f.Professional.ID,
		EntryID:           entry.ID,
		ProfessionalID:    e.f.Other.ID,
		Time:              "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "professional_not_found"))

	theirs := e.input()
	theirs.ProfessionalID = &e.f.Other.ID
	other := e.mustCreate(t, theirs)

	_, _, err = e.promote.Execute(ctx, PromoteEntryInput{
		EstablishmentID:   e.f.Establishment.ID,
		ProfessionalScope: &e.f.Professional.ID,
		EntryID:           other.ID,
		Time:              "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "waitlist_entry_not_found"))

	// profissional promove item sem dono para a própria agenda
	_, ap, err := e.promote.Execute(ctx, PromoteEntryInput{
		EstablishmentID:   e.f.Establishment.ID,
		ProfessionalScope: &e.f.Professional.ID,
		EntryID:           entry.ID,
		Time:              "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, e.f.Professional.ID, ap.ProfessionalID)
}

func TestCancelEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	estID := e.f.Establishment.ID

	theirs := e.input()
	theirs.ProfessionalID = &e.f.Other.ID
	entry := e.mustCreate(t, theirs)

	err := e.cancel.Execute(ctx, estID, nil, &e.f.Professional.ID, entry.ID)
	assert.True(t, httperr.IsBusiness(err, "waitlist_entry_not_found"))

	require.NoError(t, e.cancel.Execute(ctx, estID, nil, nil, entry.ID))

	err = e.cancel.Execute(ctx, estID, nil, nil, entry.ID)
	assert.True(t, httperr.IsBusiness(err, "waitlist_entry_not_waiting"))

	err = e.cancel.Execute(ctx, estID, nil, nil, "nope")
	assert.True(t, httperr.IsBusiness(err, "waitlist_entry_not_found"))
}
