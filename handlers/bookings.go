package handlers

import (
	"net/http"

	bookingRepo "petbnb/database/repository/booking"
	"petbnb/middleware"
	"petbnb/services/bookings"
	"petbnb/utils"

	"github.com/gin-gonic/gin"
)

// BookingsHandler exposes an owner's booking records.
type BookingsHandler struct {
	Service *bookings.Service
	Repo    bookingRepo.BookingRepository
}

func NewBookingsHandler(service *bookings.Service, repo bookingRepo.BookingRepository) *BookingsHandler {
	return &BookingsHandler{Service: service, Repo: repo}
}

// ListBookings returns the owner's bookings.
func (h *BookingsHandler) ListBookings(c *gin.Context) {
	list, err := h.Repo.GetByOwnerID(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// CancelBooking explicitly cancels one of the owner's pending, unpaid bookings.
// This is the recovery action for a booking left behind by an abandoned payment.
func (h *BookingsHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("bookingID")

	booking, err := h.Service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
		return
	}
	if booking.OwnerID != middleware.OwnerID(c) {
		utils.JSONError(c, http.StatusNotFound, "booking not found", "no such booking for this owner")
		return
	}

	if err := h.Service.CancelBooking(c.Request.Context(), bookingID, "cancelled by owner"); err != nil {
		utils.JSONError(c, http.StatusConflict, "booking cannot be cancelled", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
