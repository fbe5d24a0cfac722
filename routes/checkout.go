package routes

import (
	"petbnb/handlers"
	"petbnb/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCheckoutRoutes registers all endpoints for the checkout wizard.
func RegisterCheckoutRoutes(r *gin.Engine, h *handlers.CheckoutHandler) {
	co := r.Group("/api/checkout", middleware.RequireOwner())
	{
		co.POST("/session", h.StartSession)
		co.GET("/session/:sessionID", h.GetSession)
		co.POST("/session/:sessionID/pets", h.SelectPet)
		co.DELETE("/session/:sessionID/pets/:petID", h.DeselectPet)
		co.PUT("/session/:sessionID/schedule", h.SetSchedule)
		co.PUT("/session/:sessionID/requirements", h.SetSpecialRequirements)
		co.POST("/session/:sessionID/next", h.Advance)
		co.POST("/session/:sessionID/back", h.Back)
		co.POST("/session/:sessionID/submit", h.Submit)
		co.POST("/session/:sessionID/reopen", h.Reopen)
		co.POST("/session/:sessionID/resume-payment", h.ResumePayment)
		co.DELETE("/session/:sessionID", h.CancelSession)
	}
}
