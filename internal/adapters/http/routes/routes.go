package routes

import (
	"advancehub/internal/adapters/http/handlers"
	"advancehub/internal/adapters/http/middleware"
	"advancehub/internal/adapters/persistence/repositories"
	"advancehub/internal/config"
	"advancehub/internal/core/domain"
	"advancehub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	advanceRepo := repositories.NewAdvanceRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize services
	notifyService := services.NewNotificationService(notificationRepo)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	advanceService := services.NewAdvanceService(advanceRepo, userRepo, notifyService)
	managerService := services.NewManagerService(advanceRepo, userRepo, notifyService)
	financeService := services.NewFinanceService(advanceRepo, notifyService)
	userService := services.NewUserService(userRepo, refreshTokenRepo)
	dashboardService := services.NewDashboardService(advanceRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	advanceHandler := handlers.NewAdvanceHandler(advanceService)
	managerHandler := handlers.NewManagerHandler(managerService)
	financeHandler := handlers.NewFinanceHandler(financeService)
	userHandler := handlers.NewUserHandler(userService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	notificationHandler := handlers.NewNotificationHandler(notifyService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, stricter rate limit)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Advance routes (request owners)
	advanceRoutes := apiV1.Group("/advances")
	advanceRoutes.Use(middleware.AuthMiddleware(cfg))
	setupAdvanceRoutes(advanceRoutes, advanceHandler)

	// Manager routes
	managerRoutes := apiV1.Group("/manager")
	managerRoutes.Use(middleware.AuthMiddleware(cfg))
	managerRoutes.Use(middleware.RequireRoles(domain.RoleManager, domain.RoleAdmin))
	setupManagerRoutes(managerRoutes, managerHandler)

	// Finance routes
	financeRoutes := apiV1.Group("/finance")
	financeRoutes.Use(middleware.AuthMiddleware(cfg))
	financeRoutes.Use(middleware.RequireRoles(domain.RoleFinance, domain.RoleAdmin))
	setupFinanceRoutes(financeRoutes, financeHandler)

	// User management routes (admin plus self-service profile endpoints)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	setupUserRoutes(userRoutes, userHandler)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/admin", middleware.AdminOnly(), dashboardHandler.AdminOverview)

	// Notification routes
	notificationRoutes := apiV1.Group("/notifications")
	notificationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupNotificationRoutes(notificationRoutes, notificationHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupAdvanceRoutes configures the owner-facing advance routes
func setupAdvanceRoutes(router fiber.Router, handler *handlers.AdvanceHandler) {
	router.Post("/", handler.Create)
	router.Get("/my-requests", handler.List)
	router.Get("/my-requests/:id", handler.Get)

	// Staff dashboard aggregates
	router.Get("/staff/stats", handler.Stats)
	router.Get("/staff/recent", handler.Recent)
	router.Get("/staff/pending", handler.Pending)

	router.Put("/:id/retire", handler.Retire)
}

// setupManagerRoutes configures the approval-side routes
func setupManagerRoutes(router fiber.Router, handler *handlers.ManagerHandler) {
	router.Get("/dashboard", handler.Dashboard)
	router.Get("/pending-approvals", handler.PendingApprovals)
	router.Get("/requests/:id", handler.RequestDetail)
	router.Put("/requests/:id/approve", handler.Approve)
	router.Put("/requests/:id/reject", handler.Reject)
	router.Get("/team-requests", handler.TeamRequests)
	router.Get("/team-members", handler.TeamMembers)
	router.Get("/team-members/:id/requests", handler.TeamMemberRequests)
	router.Get("/reports/summary", handler.Reports)
}

// setupFinanceRoutes configures the disbursement routes
func setupFinanceRoutes(router fiber.Router, handler *handlers.FinanceHandler) {
	router.Get("/dashboard", handler.Dashboard)
	router.Get("/requests", handler.List)
	router.Get("/requests/:id", handler.Get)
	router.Put("/requests/:id/disburse", handler.Disburse)
}

// setupUserRoutes configures user management and profile routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	// Self-service (any authenticated user)
	router.Put("/profile", handler.UpdateProfile)
	router.Post("/change-password", handler.ChangePassword)

	// Admin only
	router.Get("/", middleware.AdminOnly(), handler.List)
	router.Get("/:id", middleware.AdminOnly(), handler.Get)
	router.Put("/:id", middleware.AdminOnly(), handler.Update)
	router.Put("/:id/role", middleware.AdminOnly(), handler.UpdateRole)
	router.Delete("/:id", middleware.AdminOnly(), handler.Delete)
}

// setupNotificationRoutes configures the notification routes
func setupNotificationRoutes(router fiber.Router, handler *handlers.NotificationHandler) {
	router.Get("/", handler.List)
	router.Post("/read-all", handler.MarkAllRead)
	router.Post("/:id/read", handler.MarkRead)
}
