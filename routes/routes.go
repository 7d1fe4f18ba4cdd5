package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"swiftmotors/handlers"
)

// RegisterSchedulingRoutes registers all endpoints for the scheduling engine.
func RegisterSchedulingRoutes(r *gin.Engine, sh *handlers.SchedulingHandler) {
	api := r.Group("/api/scheduling")
	{
		api.POST("/intent", sh.HandleIntent)
		api.GET("/today", sh.Today)
		api.GET("/availability", sh.GetAvailability)
		api.GET("/busy", sh.GetBusySlots)
		api.POST("/busy", sh.MarkBusy)
		api.POST("/cancel", sh.CancelBooking)
		api.GET("/bookings/:customerId", sh.GetCustomerBookings)
	}
}

// RegisterCatalogRoutes registers the car catalog endpoints.
func RegisterCatalogRoutes(r *gin.Engine) {
	api := r.Group("/api/catalog")
	{
		api.GET("", handlers.ListCarModels)
		api.GET("/:model", handlers.GetCarFeatures)
	}
}

// RegisterRoutes wires CORS, health, and all API routes.
func RegisterRoutes(r *gin.Engine, sh *handlers.SchedulingHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)

	RegisterSchedulingRoutes(r, sh)
	RegisterCatalogRoutes(r)
}
