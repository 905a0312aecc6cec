package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/estatecrm/backend/internal/config"
	"github.com/estatecrm/backend/internal/database"
	"github.com/estatecrm/backend/internal/handlers"
	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/middleware"
	"github.com/estatecrm/backend/internal/repository"
	"github.com/estatecrm/backend/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	db := database.GetDB()

	// Repositories
	employeeRepo := repository.NewEmployeeRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	actionRepo := repository.NewActionRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services
	authService := services.NewAuthService(employeeRepo, cfg.JWTSecret)
	assignment := services.NewAssignmentService(employeeRepo)
	if err := assignment.Reload(); err != nil {
		log.Fatalf("Failed to load sales rotation: %v", err)
	}
	notifier := services.NewNotificationService(services.NewWebPushTransport(cfg), subRepo)
	reminder := services.NewReminderService(taskRepo, notifier)
	whatsapp := services.NewWhatsAppService(cfg.WhatsAppURL)
	reports := services.NewReportService(reportRepo)
	media := services.NewMediaStore(cfg.UploadDir)

	// Reminder sweep
	if err := reminder.Start(cfg.SweepInterval); err != nil {
		log.Fatalf("Failed to schedule reminder sweep: %v", err)
	}
	defer reminder.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	employeeHandler := handlers.NewEmployeeHandler(employeeRepo)
	leadHandler := handlers.NewLeadHandler(leadRepo, assignment)
	projectHandler := handlers.NewProjectHandler(projectRepo, media)
	unitHandler := handlers.NewUnitHandler(unitRepo, media)
	actionHandler := handlers.NewActionHandler(actionRepo, unitRepo, projectRepo)
	taskHandler := handlers.NewTaskHandler(taskRepo)
	notificationHandler := handlers.NewNotificationHandler(subRepo, notifier, reminder)
	whatsappHandler := handlers.NewWhatsAppHandler(whatsapp)
	reportHandler := handlers.NewReportHandler(reports)

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "CRM API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded project/unit media
	r.Static("/uploads", media.BaseDir())

	requireAuth := middleware.RequireAuth(authService)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentEmployee)
		}

		// Employee routes (admin only, whole resource)
		employees := api.Group("/employees")
		employees.Use(requireAuth, middleware.RequireAdmin())
		{
			employees.GET("", employeeHandler.ListEmployees)
			employees.POST("", employeeHandler.CreateEmployee)
			employees.GET("/:id", employeeHandler.GetEmployee)
			employees.PATCH("/:id", employeeHandler.UpdateEmployee)
			employees.DELETE("/:id", employeeHandler.DeleteEmployee)
		}

		// Lead routes
		leads := api.Group("/leads")
		leads.Use(requireAuth)
		{
			leads.GET("", leadHandler.ListLeads)
			leads.POST("", leadHandler.CreateLead)
			leads.GET("/salesperson/:salesId", leadHandler.ListLeadsBySalesperson)
			leads.GET("/:id", leadHandler.GetLead)
			leads.PATCH("/:id", leadHandler.UpdateLead)
			leads.PATCH("/:id/transfer", leadHandler.TransferLead)
			leads.DELETE("/:id", leadHandler.DeleteLead)
		}

		// Project routes (writes admin only)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("", middleware.RequireAdmin(), projectHandler.CreateProject)
			projects.PATCH("/:id", middleware.RequireAdmin(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireAdmin(), projectHandler.DeleteProject)
		}

		// Unit routes (writes admin only)
		units := api.Group("/units")
		units.Use(requireAuth)
		{
			units.GET("", unitHandler.ListUnits)
			units.GET("/project/:projectId", unitHandler.ListUnitsByProject)
			units.GET("/:id", unitHandler.GetUnit)
			units.POST("", middleware.RequireAdmin(), unitHandler.CreateUnit)
			units.PATCH("/:id", middleware.RequireAdmin(), unitHandler.UpdateUnit)
			units.DELETE("/:id", middleware.RequireAdmin(), unitHandler.DeleteUnit)
		}

		// Action routes
		actions := api.Group("/actions")
		actions.Use(requireAuth)
		{
			actions.GET("", actionHandler.ListActions)
			actions.POST("", actionHandler.CreateAction)
			actions.GET("/customer/:customerId", actionHandler.ListActionsByCustomer)
			actions.GET("/sales/:salesId", actionHandler.ListActionsBySales)
			actions.GET("/project/:projectId", actionHandler.ListActionsByProject)
			actions.GET("/unit/:unitId", actionHandler.ListActionsByUnit)
			actions.GET("/:id", actionHandler.GetAction)
			actions.PATCH("/:id", actionHandler.UpdateAction)
			actions.DELETE("/:id", actionHandler.DeleteAction)
		}

		// Task routes
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/customer/:customerId", taskHandler.ListTasksByCustomer)
			tasks.GET("/sales/:salesId", taskHandler.ListTasksBySales)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Notification routes
		notifications := api.Group("/notifications")
		{
			notifications.POST("/subscribe", requireAuth, notificationHandler.Subscribe)
			notifications.POST("/task-reminder", notificationHandler.TaskReminder)
			notifications.POST("/task-reminder-by-id", notificationHandler.TaskReminderByID)
		}

		// WhatsApp relay
		api.POST("/whatsapp/send", requireAuth, whatsappHandler.Send)

		// Reports
		reportsGroup := api.Group("/reports")
		reportsGroup.Use(requireAuth)
		{
			reportsGroup.GET("/admin/sales", middleware.RequireAdmin(), reportHandler.AdminSales)
			reportsGroup.GET("/salesman/me/sales", reportHandler.MySales)
		}
	}

	// Start server
	logger.Get().Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
