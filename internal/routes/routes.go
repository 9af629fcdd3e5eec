package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/config"
	domainAppointment "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	domainSchedule "github.com/BruksfildServices01/service-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/handlers"
	"github.com/BruksfildServices01/service-scheduler/internal/lock"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/service-scheduler/internal/usecase/schedule"
	"github.com/BruksfildServices01/service-scheduler/internal/validators"
)

// Deps are the singletons the API is built from. DB backs the account,
// catalog and audit reads; everything else goes through the ports.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *slog.Logger

	Appointments domainAppointment.Repository
	Schedule     domainSchedule.Repository

	Locker   lock.Locker
	Clock    timezone.Clock
	Notifier notification.Notifier
	Inbox    notification.Inbox
	Audit    *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	if err := validators.RegisterBindings(); err != nil {
		return err
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(d.Logger),
		middleware.CORSMiddleware(d.Config.AllowedOrigins),
	)

	// ======================================================
	// USE CASES
	// ======================================================
	appointmentDeps := ucAppointment.Deps{
		Repo:        d.Appointments,
		Locker:      d.Locker,
		Clock:       d.Clock,
		Notifier:    d.Notifier,
		Audit:       d.Audit,
		SlotMinutes: d.Config.SlotMinutes,
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config)
	meHandler := handlers.NewMeHandler(d.DB)
	catalogHandler := handlers.NewCatalogHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	appointmentHandler := handlers.NewAppointmentHandler(appointmentDeps)
	scheduleHandler := handlers.NewScheduleHandler(ucSchedule.NewGetScheduleBoard(d.Schedule))
	workingHoursHandler := handlers.NewWorkingHoursHandler(ucSchedule.NewWorkingHours(d.Schedule, d.Audit))
	timeOffHandler := handlers.NewTimeOffHandler(ucSchedule.NewTimeOff(d.Schedule, d.Audit))
	notificationsHandler := handlers.NewNotificationsHandler(d.Inbox)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/services", catalogHandler.ListServices)
		api.GET("/staff", catalogHandler.ListStaff)
		api.GET("/availability", appointmentHandler.Availability)

		// ------------------------------
		// SIGNED IN
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/notifications", notificationsHandler.List)
			secured.PATCH("/notifications/read-all", notificationsHandler.MarkAllRead)
			secured.PATCH("/notifications/:id/read", notificationsHandler.MarkRead)

			// ------------------------------
			// CLIENT
			// ------------------------------
			client := secured.Group("/appointments")
			client.Use(middleware.RequireRole(models.RoleClient))
			{
				client.POST("", appointmentHandler.Create)
				client.GET("/my", appointmentHandler.ListMine)
				client.POST("/:id/accept", appointmentHandler.AcceptProposal)
				client.POST("/:id/reject", appointmentHandler.RejectProposal)
				client.POST("/:id/cancel", appointmentHandler.Cancel)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/appointments", appointmentHandler.List)
				admin.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
				admin.PATCH("/appointments/:id/decline", appointmentHandler.Decline)
				admin.PATCH("/appointments/:id/propose", appointmentHandler.Propose)
				admin.PATCH("/appointments/:id/status", appointmentHandler.SetStatus)

				admin.GET("/schedule", scheduleHandler.Board)

				admin.GET("/staff/:id/working-hours", workingHoursHandler.Get)
				admin.PUT("/staff/:id/working-hours", workingHoursHandler.Update)

				admin.GET("/staff/:id/time-off", timeOffHandler.List)
				admin.POST("/staff/:id/time-off", timeOffHandler.Create)
				admin.DELETE("/staff/:id/time-off/:timeOffId", timeOffHandler.Delete)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}

	return nil
}
