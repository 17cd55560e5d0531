package bookings

import (
	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes registers the booking endpoints
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("/create-payment-intent", controller.CreatePaymentIntent)
		bookings.POST("/confirm", controller.ConfirmBooking)
		bookings.GET("/:id", controller.GetBooking)
		bookings.GET("", controller.ListBookings)
	}
}
