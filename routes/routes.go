package routes

import (
	"net/http"
	"time"

	"clinicbook/handlers"
	"clinicbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the full HTTP surface.
func RegisterRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler, doctorHandler *handlers.DoctorHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("/doctors", doctorHandler.ListDoctors)
		api.GET("/doctors/:id/schedule", doctorHandler.GetSchedule)
		api.GET("/profile", doctorHandler.GetProfile)
	}

	RegisterBookingRoutes(r, bookingHandler)
}
