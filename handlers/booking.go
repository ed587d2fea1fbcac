package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lexbook/middleware"
	"lexbook/models"
	"lexbook/services/booking"
)

// BookingHandler exposes the session-based booking flow over HTTP.
type BookingHandler struct {
	Service booking.BookingSessionService
	Ledger  booking.Ledger
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingSessionService, ledger booking.Ledger, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Ledger: ledger, Logger: logger}
}

// InitiateSession starts a booking session from a consultation plan.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	var input struct {
		Plan models.ConsultationPlan `json:"plan"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.InitiateSession(c.Request.Context(), input.Plan, middleware.ClientID(c))
	if err != nil {
		h.bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectProvider pins a matched provider and loads its open slots.
func (h *BookingHandler) SelectProvider(c *gin.Context) {
	var input struct {
		ProviderID string `json:"providerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.SelectProvider(c.Request.Context(), c.Param("sessionID"), input.ProviderID)
	if err != nil {
		h.bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectSlot pins a slot from the session's availability view.
func (h *BookingHandler) SelectSlot(c *gin.Context) {
	var input struct {
		SlotID string `json:"slotId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.SelectSlot(c.Request.Context(), c.Param("sessionID"), input.SlotID)
	if err != nil {
		h.bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateDetails merges matter details into the session's wizard data.
func (h *BookingHandler) UpdateDetails(c *gin.Context) {
	var input models.WizardData
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.UpdateDetails(c.Request.Context(), c.Param("sessionID"), input)
	if err != nil {
		h.bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Advance moves the wizard to the next step if the current step validates.
func (h *BookingHandler) Advance(c *gin.Context) {
	session, err := h.Service.Advance(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Retreat moves the wizard back one step.
func (h *BookingHandler) Retreat(c *gin.Context) {
	session, err := h.Service.Retreat(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ConfirmBooking runs the final reserve-pay-confirm sequence. A lost slot is
// a 409 carrying the refreshed availability, not a server error.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	outcome, err := h.Service.ConfirmBooking(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.bookingError(c, err)
		return
	}
	if outcome.SlotTaken {
		c.JSON(http.StatusConflict, outcome)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// CancelSession abandons the session.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Service.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		h.bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// CancelAppointment cancels a booked appointment and frees its slot.
func (h *BookingHandler) CancelAppointment(c *gin.Context) {
	appt, err := h.Ledger.Cancel(c.Request.Context(), c.Param("appointmentID"))
	if err != nil {
		h.bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// GetAppointment returns a single appointment by ID.
func (h *BookingHandler) GetAppointment(c *gin.Context) {
	appt, err := h.Ledger.GetAppointment(c.Request.Context(), c.Param("appointmentID"))
	if err != nil {
		h.bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ListMyAppointments returns the authenticated client's booking history.
func (h *BookingHandler) ListMyAppointments(c *gin.Context) {
	appts, err := h.Ledger.ListByClient(c.Request.Context(), middleware.ClientID(c))
	if err != nil {
		h.bookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// bookingError maps stable booking error codes to HTTP statuses.
func (h *BookingHandler) bookingError(c *gin.Context, err error) {
	code := booking.ErrCode(err)
	status := http.StatusInternalServerError
	switch code {
	case booking.CodeValidationFailed:
		status = http.StatusUnprocessableEntity
	case booking.CodeSlotNotFound, booking.CodeAppointmentNotFound:
		status = http.StatusNotFound
	case booking.CodeSlotAlreadyBooked, booking.CodeInvalidTransition:
		status = http.StatusConflict
	case booking.CodePaymentFailed:
		status = http.StatusPaymentRequired
	case booking.CodeCatalogUnavailable, booking.CodeLedgerUnreachable:
		status = http.StatusServiceUnavailable
	case "":
		// Anything without a code is an input or session problem.
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		h.Logger.Error("booking request failed", zap.String("code", code), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
