package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/session"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Sessions *session.Manager
	Catalog  *ucBooking.Catalog
	Forms    *ucBooking.FormRegistry
	Cancel   *ucBooking.CancelAppointment
	Audit    *audit.Dispatcher
	Gatherer prometheus.Gatherer
	// DB is optional; the audit trail route needs it.
	DB *gorm.DB
}

func RegisterRoutes(r *gin.Engine, deps Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORSMiddleware(deps.Config.CORSOrigins))

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.Sessions, deps.Forms, deps.Audit, deps.Logger)
	meHandler := handlers.NewMeHandler()
	publicHandler := handlers.NewPublicHandler(deps.Catalog)
	formHandler := handlers.NewFormHandler(deps.Forms, deps.Logger)
	appointmentHandler := handlers.NewAppointmentHandler(deps.Catalog, deps.Cancel)

	// ======================================================
	// INFRA
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// CATALOG (token optional)
		// ------------------------------
		public := api.Group("/")
		public.Use(middleware.OptionalAuth(deps.Sessions))
		{
			public.GET("/specialties", publicHandler.ListSpecialties)
			public.GET("/services", publicHandler.ListServices)
			public.GET("/barbers", publicHandler.ListBarbers)
			public.GET("/barbers/:id", publicHandler.GetBarber)
			public.GET("/barbers/:id/workdays", publicHandler.ListWorkDays)
			public.GET("/barbers/:id/specialties", publicHandler.ListBarberSpecialties)
			public.GET("/barbers/:id/available-slots", publicHandler.ListAvailableSlots)
			public.GET("/booking/options", publicHandler.BookingOptions)
		}

		// ------------------------------
		// SESSION REQUIRED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(deps.Sessions))
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// BOOKING FORM
			// ------------------------------
			secured.POST("/booking/form", formHandler.Start)
			secured.GET("/booking/form", formHandler.Get)
			secured.PUT("/booking/form/barber", formHandler.SelectBarber)
			secured.PUT("/booking/form/workday", formHandler.SelectWorkDay)
			secured.PUT("/booking/form/slot", formHandler.SelectSlot)
			secured.PUT("/booking/form/service", formHandler.SelectService)
			secured.PUT("/booking/form/notes", formHandler.SetNotes)
			secured.POST("/booking/form/submit", formHandler.Submit)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)

			if deps.DB != nil {
				auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)
				secured.GET("/me/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
