package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	"github.com/BruksfildServices01/gestao-agenda/internal/authz"
	"github.com/BruksfildServices01/gestao-agenda/internal/config"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/handlers"
	infraRepo "github.com/BruksfildServices01/gestao-agenda/internal/infra/repository"
	"github.com/BruksfildServices01/gestao-agenda/internal/media"
	"github.com/BruksfildServices01/gestao-agenda/internal/metrics"
	"github.com/BruksfildServices01/gestao-agenda/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/gestao-agenda/internal/usecase/appointment"
	ucBlackout "github.com/BruksfildServices01/gestao-agenda/internal/usecase/blackout"
	ucRating "github.com/BruksfildServices01/gestao-agenda/internal/usecase/rating"
	ucSchedule "github.com/BruksfildServices01/gestao-agenda/internal/usecase/schedule"
	ucWaitlist "github.com/BruksfildServices01/gestao-agenda/internal/usecase/waitlist"
)

// Deps reúne a infraestrutura montada no main. Cache, Audit, Metrics e
// Uploader podem ser nil.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config

	Cache       domain.SnapshotCache
	AuditLogger *audit.Logger
	Audit       *audit.Dispatcher
	Metrics     *metrics.Metrics
	Uploader    *media.PhotoUploader
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	db, cfg := d.DB, d.Config

	if d.Cache == nil {
		d.Cache = domain.NoopSnapshotCache{}
	}
	if d.AuditLogger == nil {
		d.AuditLogger = audit.New(db)
	}

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	snapshots := ucSchedule.NewSnapshotLoader(appointmentRepo, d.Cache)
	defaultGrid := cfg.DefaultGrid()

	// ======================================================
	// USE CASES - SCHEDULE
	// ======================================================
	getGridUC := ucSchedule.NewGetGrid(appointmentRepo, snapshots, defaultGrid, d.Metrics)
	checkConflictUC := ucSchedule.NewCheckConflict(appointmentRepo, d.Metrics)

	// ======================================================
	// USE CASES - APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, d.Cache, d.Audit, d.Metrics)
	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(appointmentRepo, d.Cache, d.Audit, d.Metrics)
	changeStatusUC := ucAppointment.NewChangeAppointmentStatus(appointmentRepo, d.Cache, d.Audit)
	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, snapshots, defaultGrid)

	// ======================================================
	// USE CASES - BLACKOUTS
	// ======================================================
	createBlackoutUC := ucBlackout.NewCreateBlackout(appointmentRepo, d.Cache, d.Audit)
	listBlackoutsUC := ucBlackout.NewListBlackouts(appointmentRepo)
	deleteBlackoutUC := ucBlackout.NewDeleteBlackout(appointmentRepo, d.Cache, d.Audit)

	// ======================================================
	// USE CASES - WAITLIST / RATINGS
	// ======================================================
	createWaitlistUC := ucWaitlist.NewCreateEntry(appointmentRepo, d.Audit)
	listWaitlistUC := ucWaitlist.NewListEntries(appointmentRepo)
	promoteWaitlistUC := ucWaitlist.NewPromoteEntry(appointmentRepo, createAppointmentUC, d.Audit)
	cancelWaitlistUC := ucWaitlist.NewCancelEntry(appointmentRepo, d.Audit)

	createRatingUC := ucRating.NewCreateRating(appointmentRepo, d.Audit)
	listRatingsUC := ucRating.NewListRatings(appointmentRepo)
	replyRatingUC := ucRating.NewReplyRating(appointmentRepo, d.Audit)
	ratingVisibilityUC := ucRating.NewSetVisibility(appointmentRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db, d.Uploader)
	establishmentHandler := handlers.NewEstablishmentHandler(db, defaultGrid)
	professionalHandler := handlers.NewProfessionalHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		rescheduleAppointmentUC,
		changeStatusUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		availabilityUC,
	)
	scheduleHandler := handlers.NewScheduleHandler(getGridUC, checkConflictUC)
	blackoutHandler := handlers.NewBlackoutHandler(createBlackoutUC, listBlackoutsUC, deleteBlackoutUC)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLogger)

	waitlistHandler := handlers.NewWaitlistHandler(createWaitlistUC, listWaitlistUC, promoteWaitlistUC, cancelWaitlistUC)
	ratingHandler := handlers.NewRatingHandler(listRatingsUC, replyRatingUC, ratingVisibilityUC)

	publicHandler := handlers.NewPublicHandler(
		db,
		getGridUC,
		availabilityUC,
		createAppointmentUC,
		createRatingUC,
		listRatingsUC,
	)

	// ======================================================
	// OPERACIONAL
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/grid", publicHandler.Grid)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
			publicAPI.POST("/:slug/appointments/:id/rating", publicHandler.RateAppointment)
			publicAPI.GET("/:slug/ratings", publicHandler.ListRatings)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PUT("/me/photo", meHandler.UploadPhoto)

			secured.GET("/me/establishment", establishmentHandler.Get)
			secured.PATCH("/me/establishment",
				middleware.RequirePermission(authz.CanConfigureApp),
				establishmentHandler.Update)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services",
				middleware.RequirePermission(authz.CanEditServices),
				serviceHandler.Create)
			secured.PATCH("/me/services/:id",
				middleware.RequirePermission(authz.CanEditServices),
				serviceHandler.Update)

			secured.GET("/me/audit-logs",
				middleware.RequirePermission(authz.CanConfigureApp),
				auditLogsHandler.List)

			// ------------------------------
			// EQUIPE
			// ------------------------------
			team := secured.Group("/me/professionals")
			team.Use(middleware.RequirePermission(authz.CanViewOwnAgenda))
			{
				team.GET("", professionalHandler.List)
				team.POST("", middleware.RequirePermission(authz.CanManageProfessionals), professionalHandler.Create)
				team.PATCH("/:id", middleware.RequirePermission(authz.CanManageProfessionals), professionalHandler.Update)
			}

			// ------------------------------
			// AGENDA
			// ------------------------------
			agenda := secured.Group("/me")
			agenda.Use(middleware.RequirePermission(authz.CanViewOwnAgenda))
			{
				agenda.GET("/clients", middleware.RequirePermission(authz.CanViewOwnClients), clientHandler.List)

				agenda.GET("/working-hours", workingHoursHandler.Get)
				agenda.PUT("/working-hours", workingHoursHandler.Update)

				agenda.GET("/grid", scheduleHandler.Grid)
				agenda.GET("/availability", appointmentHandler.Availability)

				agenda.POST("/appointments", appointmentHandler.Create)
				agenda.POST("/appointments/check", scheduleHandler.Check)
				agenda.GET("/appointments", appointmentHandler.ListByDate)
				agenda.GET("/appointments/month", appointmentHandler.ListByMonth)
				agenda.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
				agenda.PATCH("/appointments/:id/status", appointmentHandler.ChangeStatus)
				agenda.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
				agenda.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

				agenda.GET("/blackouts", blackoutHandler.List)
				agenda.POST("/blackouts", blackoutHandler.Create)
				agenda.DELETE("/blackouts/:id", blackoutHandler.Delete)

				agenda.GET("/waitlist", waitlistHandler.List)
				agenda.POST("/waitlist", waitlistHandler.Create)
				agenda.POST("/waitlist/:id/promote", waitlistHandler.Promote)
				agenda.DELETE("/waitlist/:id", waitlistHandler.Cancel)

				agenda.GET("/ratings", ratingHandler.List)
				agenda.PATCH("/ratings/:id/reply", ratingHandler.Reply)
				agenda.PATCH("/ratings/:id/visibility",
					middleware.RequirePermission(authz.CanConfigureApp),
					ratingHandler.SetVisibility)
			}
		}
	}
}
