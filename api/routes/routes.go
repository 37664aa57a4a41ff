package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lottohaus/worldlotto-backend/internal/config"
	"github.com/lottohaus/worldlotto-backend/internal/handlers"
	"github.com/lottohaus/worldlotto-backend/internal/middleware"
	"github.com/lottohaus/worldlotto-backend/internal/services"
	"github.com/lottohaus/worldlotto-backend/pkg/geoip"
)

// HandlerDependencies bundles the handlers wired in main.
type HandlerDependencies struct {
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	TicketHandler   *handlers.TicketHandler
	DrawingHandler  *handlers.DrawingHandler
	JackpotHandler  *handlers.JackpotHandler
	AdminHandler    *handlers.AdminHandler
	CouponHandler   *handlers.CouponHandler
	SettingsService services.SettingsService
	GeoIPClient     geoip.Client
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		drawings := public.Group("/drawings")
		{
			drawings.GET("", deps.DrawingHandler.GetAll)
			drawings.GET("/current", deps.DrawingHandler.GetCurrent)
			drawings.GET("/latest", deps.DrawingHandler.GetLatest)
			drawings.GET("/:id", deps.DrawingHandler.GetByID)
		}

		public.GET("/jackpot", deps.DrawingHandler.GetJackpotStatus)
	}

	// Authenticated routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", deps.UserHandler.Me)
			users.POST("/me/deposit", deps.UserHandler.Deposit)
			users.GET("/me/transactions", deps.UserHandler.Transactions)
		}

		tickets := protected.Group("/tickets")
		tickets.Use(middleware.GeoBlockMiddleware(deps.SettingsService, deps.GeoIPClient))
		{
			tickets.GET("", deps.TicketHandler.GetMyTickets)
			tickets.POST("", deps.TicketHandler.CreateTickets)
		}

		protected.POST("/coupons/validate", deps.CouponHandler.Validate)
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg), middleware.AdminRequired())
	{
		users := admin.Group("/users")
		{
			users.GET("", deps.UserHandler.GetAllUsers)
			users.GET("/:id", deps.UserHandler.GetUserByID)
			users.POST("/:id/grant-admin", deps.UserHandler.GrantAdmin)
			users.POST("/:id/revoke-admin", deps.UserHandler.RevokeAdmin)
			users.POST("/import", deps.AdminHandler.ImportUsers)
		}

		drawings := admin.Group("/drawings")
		{
			drawings.POST("/perform", deps.DrawingHandler.PerformDrawing)
			drawings.GET("/preview", deps.DrawingHandler.PreviewDrawing)
			drawings.POST("/:id/recalculate", deps.DrawingHandler.Recalculate)
			drawings.GET("/:id/tickets", deps.TicketHandler.GetTicketsByDrawing)
		}

		tickets := admin.Group("/tickets")
		{
			tickets.DELETE("/:id", deps.TicketHandler.DeleteTicket)
			tickets.POST("/delete", deps.TicketHandler.DeleteTickets)
		}

		jackpot := admin.Group("/jackpot")
		{
			jackpot.GET("/pending", deps.JackpotHandler.GetPendingWinners)
			jackpot.GET("/rollovers", deps.JackpotHandler.GetRollovers)
			jackpot.POST("/:ticketId/approve", deps.JackpotHandler.Approve)
			jackpot.POST("/:ticketId/reject", deps.JackpotHandler.Reject)
			jackpot.PUT("/simulated", deps.DrawingHandler.SetSimulatedJackpot)
		}

		settings := admin.Group("/settings")
		{
			settings.GET("", deps.AdminHandler.GetSettings)
			settings.PUT("/sales-stop", deps.AdminHandler.SetSalesStop)
			settings.PUT("/intelligent-drawing", deps.AdminHandler.SetIntelligentDrawing)
			settings.PUT("/exempt-users", deps.AdminHandler.SetExemptUsers)
			settings.PUT("/blocked-countries", deps.AdminHandler.SetBlockedCountries)
		}

		reserve := admin.Group("/reserve-fund")
		{
			reserve.GET("", deps.AdminHandler.GetReserveFund)
			reserve.PUT("", deps.AdminHandler.SetReserveFund)
			reserve.POST("/add", deps.AdminHandler.AddToReserveFund)
		}

		coupons := admin.Group("/coupons")
		{
			coupons.GET("", deps.CouponHandler.GetAll)
			coupons.POST("", deps.CouponHandler.Create)
			coupons.PUT("/:id", deps.CouponHandler.Update)
			coupons.DELETE("/:id", deps.CouponHandler.Delete)
		}

		admin.GET("/events", deps.AdminHandler.GetEvents)
	}

	return router
}
