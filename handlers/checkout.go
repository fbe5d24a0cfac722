package handlers

import (
	"errors"
	"net/http"
	"time"

	"petbnb/middleware"
	"petbnb/services/checkout"
	"petbnb/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutHandler exposes the checkout wizard over HTTP. Handlers are thin:
// resolve identity, decode input, delegate to the checkout service, map errors.
type CheckoutHandler struct {
	Service checkout.CheckoutService
	Logger  *zap.Logger
}

func NewCheckoutHandler(service checkout.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{Service: service, Logger: logger}
}

// StartSession opens a new checkout wizard for a service offering.
func (h *CheckoutHandler) StartSession(c *gin.Context) {
	var input struct {
		ServiceID string `json:"service_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, pets, err := h.Service.StartSession(c.Request.Context(), middleware.OwnerID(c), input.ServiceID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to start checkout", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"pets":    pets,
	})
}

// GetSession returns the current wizard state.
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	session, err := h.Service.GetSession(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SelectPet adds a pet to the draft.
func (h *CheckoutHandler) SelectPet(c *gin.Context) {
	var input struct {
		PetID string `json:"pet_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	h.respond(c)(h.Service.SelectPet(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID"), input.PetID))
}

// DeselectPet removes a pet from the draft.
func (h *CheckoutHandler) DeselectPet(c *gin.Context) {
	h.respond(c)(h.Service.DeselectPet(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID"), c.Param("petID")))
}

// SetSchedule sets the draft's date/time range.
func (h *CheckoutHandler) SetSchedule(c *gin.Context) {
	var input struct {
		StartAt time.Time `json:"start_at" binding:"required"`
		EndAt   time.Time `json:"end_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	h.respond(c)(h.Service.SetSchedule(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID"), input.StartAt, input.EndAt))
}

// SetSpecialRequirements sets the optional care instructions.
func (h *CheckoutHandler) SetSpecialRequirements(c *gin.Context) {
	var input struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	h.respond(c)(h.Service.SetSpecialRequirements(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID"), input.Text))
}

// Advance moves the wizard forward one step.
func (h *CheckoutHandler) Advance(c *gin.Context) {
	h.respond(c)(h.Service.Advance(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID")))
}

// Back moves the wizard back one step.
func (h *CheckoutHandler) Back(c *gin.Context) {
	h.respond(c)(h.Service.Back(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID")))
}

// Submit freezes the draft and submits it for booking and payment.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var input struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	h.respond(c)(h.Service.Submit(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID"), input.PaymentMethod))
}

// Reopen returns a failed session to the review step for a full retry.
func (h *CheckoutHandler) Reopen(c *gin.Context) {
	h.respond(c)(h.Service.Reopen(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID")))
}

// ResumePayment retries only the payment leg of a failed submission.
func (h *CheckoutHandler) ResumePayment(c *gin.Context) {
	var input struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	h.respond(c)(h.Service.ResumePayment(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID"), input.PaymentMethod))
}

// CancelSession abandons the wizard.
func (h *CheckoutHandler) CancelSession(c *gin.Context) {
	if err := h.Service.CancelSession(c.Request.Context(), middleware.OwnerID(c), c.Param("sessionID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// respond returns a closure so handlers can pass a (session, error) pair
// through a single error-mapping path.
func (h *CheckoutHandler) respond(c *gin.Context) func(*checkout.Session, error) {
	return func(session *checkout.Session, err error) {
		if err != nil {
			var vErr *checkout.ValidationError
			if errors.As(err, &vErr) {
				// Validation failures are user-correctable: return the session so
				// the client can render the inline reason at the current step.
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"session": session,
					"error":   vErr.Reason,
					"step":    string(vErr.Step),
				})
				return
			}
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

func (h *CheckoutHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "checkout session not found", err.Error())
	case errors.Is(err, checkout.ErrSubmitInProgress):
		utils.JSONError(c, http.StatusConflict, "submission already in progress", err.Error())
	case errors.Is(err, checkout.ErrDraftLocked):
		utils.JSONError(c, http.StatusConflict, "checkout can no longer be modified", err.Error())
	default:
		var inputErr *checkout.InvalidInputError
		if errors.As(err, &inputErr) {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", inputErr.Message)
			return
		}
		h.Logger.Error("checkout request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "checkout request failed", err.Error())
	}
}
