package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/database"
	"github.com/keshercrm/kesher-crm/internal/handlers"
	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/middleware"
	"github.com/keshercrm/kesher-crm/internal/services"
	"github.com/keshercrm/kesher-crm/internal/types"

	_ "github.com/keshercrm/kesher-crm/docs/api" // Swagger docs
)

// @title Kesher CRM API
// @version 1.0.0
// @description CRM service with admin-defined entities over a dynamic record store

// @contact.name API Support
// @contact.url https://github.com/keshercrm/kesher-crm

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name crm_session

func main() {
	_ = godotenv.Load()
	logging.Init()
	defer logging.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Object storage is optional; uploads fail with 503 when absent.
	if cfg.StorageConfigured() {
		if err := services.InitStorage(cfg); err != nil {
			logging.SLog.Warnf("Object storage unavailable: %v", err)
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("kesher_crm")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version stamp and best-effort session attribution
	api.Use(middleware.Version())
	api.Use(middleware.Session(cfg))

	// Create handlers
	adminHandler := &handlers.AdminHandler{DB: db}
	dynamicHandler := &handlers.DynamicHandler{DB: db}
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	uploadHandler := &handlers.UploadHandler{Cfg: cfg}
	crmHandler := &handlers.CRMHandler{DB: db}
	dashboardHandler := &handlers.DashboardHandler{DB: db}
	metaHandler := &handlers.MetaHandler{DB: db, Cfg: cfg}

	// Health, registry and client settings
	api.Get("/health", metaHandler.Health)
	api.Get("/meta/registry", metaHandler.GetRegistry)
	api.Get("/meta/config", metaHandler.GetConfig)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", authHandler.Me)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// User administration; listing stays open to any session for pickers
	api.Get("/users", middleware.AuthRequired(), authHandler.ListUsers)
	api.Post("/users", middleware.AdminRequired(), authHandler.CreateUser)
	api.Get("/users/:id", middleware.AuthRequired(), authHandler.GetUserByID)
	api.Patch("/users/:id", middleware.AdminRequired(), authHandler.UpdateUser)
	api.Delete("/users/:id", middleware.AdminRequired(), authHandler.DeleteUser)

	// Entity administration (admin only)
	admin := api.Group("/admin", middleware.AdminRequired())
	admin.Get("/entities", adminHandler.ListEntities)
	admin.Get("/entities/:id", adminHandler.GetEntity)
	admin.Post("/entities", adminHandler.CreateEntity)
	admin.Patch("/entities/:id", adminHandler.UpdateEntity)
	admin.Delete("/entities/:id", adminHandler.DeleteEntity)
	admin.Get("/entities/:id/fields", adminHandler.ListFields)
	admin.Post("/entities/:id/fields", adminHandler.CreateField)
	admin.Patch("/fields/:id", adminHandler.UpdateField)
	admin.Delete("/fields/:id", adminHandler.DeleteField)

	// Dynamic record routes (session required)
	dynamic := api.Group("/dynamic", middleware.AuthRequired())
	dynamic.Get("/:slug", dynamicHandler.ListRecords)
	dynamic.Post("/:slug", dynamicHandler.CreateRecord)
	dynamic.Post("/:slug/validate", dynamicHandler.ValidateRecord)
	dynamic.Get("/:slug/:id", dynamicHandler.GetRecord)
	dynamic.Get("/:slug/:id/display", dynamicHandler.RenderRecord)
	dynamic.Patch("/:slug/:id", dynamicHandler.UpdateRecord)
	dynamic.Delete("/:slug/:id", dynamicHandler.DeleteRecord)
	dynamic.Get("/:slug/:id/tasks", dynamicHandler.ListRecordTasks)
	dynamic.Post("/:slug/:id/tasks", dynamicHandler.CreateRecordTask)
	dynamic.Patch("/:slug/:id/tasks/:taskId", dynamicHandler.UpdateRecordTask)
	dynamic.Delete("/:slug/:id/tasks/:taskId", dynamicHandler.DeleteRecordTask)
	dynamic.Get("/:slug/:id/calls", dynamicHandler.ListCallLogs)
	dynamic.Post("/:slug/:id/calls", dynamicHandler.CreateCallLog)
	dynamic.Delete("/:slug/:id/calls/:callId", dynamicHandler.DeleteCallLog)

	// Dialer intake; calls arrive before anyone knows which record they belong to
	api.Post("/calls", middleware.AuthRequired(), dynamicHandler.CreateCall)
	api.Post("/calls/link", middleware.AuthRequired(), dynamicHandler.LinkCall)

	// File uploads
	api.Post("/upload", middleware.AuthRequired(), uploadHandler.Upload)

	// Dashboard and saved views
	api.Get("/dashboard", middleware.AuthRequired(), dashboardHandler.GetStats)
	api.Get("/saved-views", middleware.AuthRequired(), dashboardHandler.ListSavedViews)
	api.Post("/saved-views", middleware.AuthRequired(), dashboardHandler.CreateSavedView)
	api.Delete("/saved-views/:id", middleware.AuthRequired(), dashboardHandler.DeleteSavedView)

	// Fixed CRM routes (session required)
	crm := api.Group("/", middleware.AuthRequired())
	crm.Get("/customers", crmHandler.ListCustomers)
	crm.Get("/customers/:id", crmHandler.GetCustomer)
	crm.Post("/customers", crmHandler.CreateCustomer)
	crm.Patch("/customers/:id", crmHandler.UpdateCustomer)
	crm.Delete("/customers/:id", crmHandler.DeleteCustomer)
	crm.Get("/contacts", crmHandler.ListContacts)
	crm.Get("/contacts/:id", crmHandler.GetContact)
	crm.Post("/contacts", crmHandler.CreateContact)
	crm.Patch("/contacts/:id", crmHandler.UpdateContact)
	crm.Delete("/contacts/:id", crmHandler.DeleteContact)
	crm.Get("/deals", crmHandler.ListDeals)
	crm.Post("/deals", crmHandler.CreateDeal)
	crm.Patch("/deals/:id", crmHandler.UpdateDeal)
	crm.Delete("/deals/:id", crmHandler.DeleteDeal)
	crm.Get("/certifications", crmHandler.ListCertifications)
	crm.Get("/certifications/:id", crmHandler.GetCertification)
	crm.Post("/certifications", crmHandler.CreateCertification)
	crm.Patch("/certifications/:id", crmHandler.UpdateCertification)
	crm.Delete("/certifications/:id", crmHandler.DeleteCertification)
	crm.Get("/tasks", crmHandler.ListTasks)
	crm.Post("/tasks", crmHandler.CreateTask)
	crm.Patch("/tasks/:id", crmHandler.UpdateTask)
	crm.Delete("/tasks/:id", crmHandler.DeleteTask)
	crm.Get("/products", crmHandler.ListProducts)
	crm.Post("/products", crmHandler.CreateProduct)
	crm.Patch("/products/:id", crmHandler.UpdateProduct)
	crm.Delete("/products/:id", crmHandler.DeleteProduct)
	crm.Get("/orders", crmHandler.ListOrders)
	crm.Post("/orders", crmHandler.CreateOrder)
	crm.Patch("/orders/:id", crmHandler.UpdateOrder)
	crm.Delete("/orders/:id", crmHandler.DeleteOrder)
	crm.Post("/activities", crmHandler.CreateActivity)
	crm.Delete("/activities/:id", crmHandler.DeleteActivity)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "הנתיב לא נמצא",
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logging.SLog.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	logging.SLog.Infof("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	logging.SLog.Info("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var appErr *types.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
