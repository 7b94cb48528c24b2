package routes

import (
	"canteen-api/handlers"
	"canteen-api/middleware"
	"canteen-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Menu (no auth needed)
		public.GET("/menu", handlers.GetMenu)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.PUT("/profile", handlers.UpdateProfile)

		// Orders
		auth.POST("/orders", handlers.PlaceOrder)
		auth.GET("/orders", handlers.GetMyOrders)
		auth.GET("/orders/:id", handlers.GetOrderDetail)
		auth.DELETE("/orders/:id", handlers.CancelOrder)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		// Menu management
		admin.POST("/menu", handlers.AddMenuItem)
		admin.PUT("/menu/:itemId", handlers.UpdateMenuItem)
		admin.DELETE("/menu/:itemId", handlers.DeleteMenuItem)

		// Order management
		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.PUT("/orders/:id", handlers.AdminUpdateOrder)
		admin.DELETE("/orders/:id", handlers.AdminCancelOrder)
		admin.PUT("/orders/:id/payment", handlers.AdminSetPaymentStatus)

		// Users
		admin.GET("/users", handlers.AdminGetAllUsers)
	}
}
