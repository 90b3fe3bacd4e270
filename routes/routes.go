package routes

import (
	"courier-backend/constants"
	authController "courier-backend/controllers/auth"
	shipmentController "courier-backend/controllers/shipment"
	userController "courier-backend/controllers/user"
	"courier-backend/logger"
	"courier-backend/middleware"
	shipmentService "courier-backend/services/shipment"
	userService "courier-backend/services/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)
	users := userService.NewService(db)
	shipments := shipmentService.NewService(db)

	auth := authController.NewAuthController(users, asyncLogger)
	user := userController.NewUserController(users, asyncLogger)
	shipment := shipmentController.NewShipmentController(shipments, asyncLogger)

	// Start the async audit logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "✅ Courier Management API is running",
		})
	})

	/*=============================================================================
	| Auth Routes
	===============================================================================*/
	api := app.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.Post("/register", auth.Register)
	authGroup.Post("/login", auth.Login)
	authGroup.Get("/me", middleware.Protected(), auth.Me)

	/*=============================================================================
	| Public Tracking Routes
	===============================================================================*/
	api.Get("/track/:trackingId", shipment.Track)

	/*=============================================================================
	| User Routes
	===============================================================================*/
	userGroup := api.Group("/user").Use(middleware.Protected())
	userGroup.Post("/shipments", shipment.Create)
	userGroup.Get("/shipments", shipment.GetUserShipments)
	userGroup.Get("/profile", user.GetProfile)
	userGroup.Put("/profile", user.UpdateProfile)
	userGroup.Put("/password", user.UpdatePassword)
	userGroup.Get("/stats", user.GetStats)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	adminGroup := api.Group("/admin").Use(middleware.RequireRoles(constants.AdminRoles...))
	adminGroup.Get("/shipments", shipment.GetAll)
	adminGroup.Get("/shipments/:trackingId", shipment.GetDetails)
	adminGroup.Put("/shipments/:trackingId/status", shipment.UpdateStatus)
	adminGroup.Put("/shipments/:trackingId/assign", shipment.AssignAgent)

	/*=============================================================================
	| Agent Routes (agents scoped to their own assignments)
	===============================================================================*/
	agentGroup := api.Group("/agent").Use(middleware.RequireRoles(constants.AgentRoles...))
	agentGroup.Get("/shipments", shipment.GetAll)
	agentGroup.Get("/shipments/:trackingId", shipment.GetDetails)
	agentGroup.Put("/shipments/:trackingId/status", shipment.UpdateStatus)
}
