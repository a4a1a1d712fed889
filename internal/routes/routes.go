package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/appointments"
	"vetclinic-server/internal/billing"
	"vetclinic-server/internal/config"
	"vetclinic-server/internal/handlers"
	"vetclinic-server/internal/middleware"
	"vetclinic-server/internal/models"
	"vetclinic-server/internal/reminder"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config,
	billingService *billing.Service, appointmentService *appointments.Service,
	dispatcher *reminder.Dispatcher) {

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	ownerHandler := handlers.NewOwnerHandler(db)
	inventoryHandler := handlers.NewInventoryHandler(db)
	diagnosisHandler := handlers.NewDiagnosisHandler(db, appointmentService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	billingHandler := handlers.NewBillingHandler(billingService)
	reminderHandler := handlers.NewReminderHandler(dispatcher)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// Invoked by an external scheduler; processes the full open set.
		public.POST("/cron/send-reminders", reminderHandler.SendReminders)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		staff := middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleSecretary)

		// Owners & pets
		ownerRoutes := private.Group("/owners")
		{
			ownerRoutes.POST("", staff, ownerHandler.CreateOwner)
			ownerRoutes.GET("", ownerHandler.GetOwners)
			ownerRoutes.PUT("/:id", staff, ownerHandler.UpdateOwner)
		}
		private.GET("/pets", ownerHandler.GetPets)
		private.PUT("/pets/:id", staff, ownerHandler.UpdatePet)

		// Inventory
		inventoryRoutes := private.Group("/inventory")
		inventoryRoutes.Use(staff)
		{
			inventoryRoutes.POST("", inventoryHandler.CreateItem)
			inventoryRoutes.GET("", inventoryHandler.GetItems)
			inventoryRoutes.PUT("/:id", inventoryHandler.UpdateItem)
			inventoryRoutes.DELETE("/:id", inventoryHandler.DeleteItem)
		}

		// Diagnoses (doctor writes, staff read)
		diagnosisRoutes := private.Group("/diagnoses")
		{
			diagnosisRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), diagnosisHandler.CreateDiagnosis)
			diagnosisRoutes.GET("", diagnosisHandler.GetDiagnoses)
			diagnosisRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor), diagnosisHandler.DeleteDiagnosis)
		}

		// Appointments. Create/update kick off a scoped reminder check in
		// the background; DELETE is a soft cancel.
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", staff, appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PUT("/:id", staff, appointmentHandler.UpdateAppointment)
			appointmentRoutes.PATCH("/:id/status", staff, appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.DELETE("/:id", staff, appointmentHandler.DeleteAppointment)
		}

		// Billing: status is the only mutation after creation.
		billingRoutes := private.Group("/billing")
		{
			billingRoutes.POST("", staff, billingHandler.CreateBill)
			billingRoutes.GET("", billingHandler.GetBills)
			billingRoutes.GET("/:id", billingHandler.GetBillByID)
			billingRoutes.PUT("/:id", staff, billingHandler.UpdateBillStatus)
		}

		// Manual "send now" reminder, staff only.
		private.POST("/send-sms", staff, reminderHandler.SendSMS)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
