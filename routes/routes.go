package routes

import (
	"petbnb/handlers"
	"petbnb/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all HTTP endpoints.
func RegisterRoutes(r *gin.Engine, checkoutHandler *handlers.CheckoutHandler, petsHandler *handlers.PetsHandler, bookingsHandler *handlers.BookingsHandler) {
	RegisterCheckoutRoutes(r, checkoutHandler)

	api := r.Group("/api", middleware.RequireOwner())
	{
		api.GET("/pets", petsHandler.ListPets)
		api.GET("/bookings", bookingsHandler.ListBookings)
		api.POST("/bookings/:bookingID/cancel", bookingsHandler.CancelBooking)
	}
}
