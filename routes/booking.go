package routes

import (
	"clinicbook/handlers"
	"clinicbook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	booking := r.Group("/api/booking")
	booking.Use(middleware.JWTAuthMiddleware())
	{
		booking.POST("/session", h.StartSession)
		booking.GET("/session/:sessionID", h.GetSession)
		booking.POST("/session/:sessionID/schedule/refresh", h.RefreshSchedule)
		booking.PUT("/session/:sessionID/slot", h.SelectSlot)
		booking.POST("/session/:sessionID/confirm", h.ConfirmPayment)
		booking.POST("/session/:sessionID/checkout-opened", h.CheckoutOpened)
		booking.POST("/session/:sessionID/check", h.CheckPayment)
		booking.POST("/session/:sessionID/proof", h.UploadProof)
		booking.POST("/session/:sessionID/retry", h.Retry)
		booking.DELETE("/session/:sessionID", h.CancelSession)
	}
}
