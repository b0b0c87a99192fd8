package handlers

import (
	"errors"
	"net/http"
	"time"

	"clinicbook/gateway"
	"clinicbook/middleware"
	"clinicbook/models"
	"clinicbook/services/booking"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking flow over HTTP.
type BookingHandler struct {
	svc    booking.BookingFlowService
	logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingFlowService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

// StartSession opens a flow session for a doctor and returns the normalized
// schedule alongside the session snapshot.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input struct {
		DoctorID string `json:"doctor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	sess, err := h.svc.StartSession(c.Request.Context(), middleware.Token(c), middleware.UserID(c), input.DoctorID)
	if err != nil {
		respondFlowError(c, err)
		return
	}

	schedule, err := h.svc.Schedule(sess.ID)
	if err != nil {
		respondFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":  sess.Snapshot(),
		"schedule": schedule,
	})
}

// GetSession returns the current flow snapshot.
func (h *BookingHandler) GetSession(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Param("sessionID"))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// RefreshSchedule refetches the doctor's availability for the session.
func (h *BookingHandler) RefreshSchedule(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.svc.RefreshSchedule(c.Request.Context(), sessionID); err != nil {
		respondFlowError(c, err)
		return
	}
	schedule, err := h.svc.Schedule(sessionID)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// SelectSlot picks one slot by date key and RFC3339 start time.
func (h *BookingHandler) SelectSlot(c *gin.Context) {
	var input struct {
		Date  string `json:"date" binding:"required"`
		Start string `json:"start" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	start, err := time.Parse(time.RFC3339, input.Start)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start time", err.Error())
		return
	}

	if err := h.svc.SelectSlot(c.Param("sessionID"), input.Date, start); err != nil {
		respondFlowError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmPayment submits the booking with the chosen payment method.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	var input struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	method, ok := models.ParsePaymentMethod(input.PaymentMethod)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "unsupported payment method", input.PaymentMethod)
		return
	}

	snap, err := h.svc.ConfirmPayment(c.Request.Context(), c.Param("sessionID"), method, input.Notes)
	if err != nil {
		// The snapshot still carries the resulting error state; surface
		// both so the client can render the failure step.
		status := flowErrorStatus(err)
		c.JSON(status, gin.H{"error": errMessage(err), "session": snap})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CheckoutOpened reports the user-initiated redirect to the external
// checkout, which starts status polling.
func (h *BookingHandler) CheckoutOpened(c *gin.Context) {
	if err := h.svc.OpenedCheckout(c.Param("sessionID")); err != nil {
		respondFlowError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckPayment performs one manual status check.
func (h *BookingHandler) CheckPayment(c *gin.Context) {
	status, err := h.svc.CheckPaymentNow(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_status": status})
}

// UploadProof accepts the GCash proof as multipart form data.
func (h *BookingHandler) UploadProof(c *gin.Context) {
	fileHeader, err := c.FormFile("gcash_proof")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "no proof file provided", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "could not read proof file", err.Error())
		return
	}
	defer file.Close()

	err = h.svc.UploadProof(
		c.Request.Context(),
		c.Param("sessionID"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "GCash proof uploaded. Waiting for verification."})
}

// CancelSession cancels the flow and releases any reservation.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.svc.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// Retry re-enters the flow from the form after an error.
func (h *BookingHandler) Retry(c *gin.Context) {
	if err := h.svc.Retry(c.Param("sessionID")); err != nil {
		respondFlowError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondFlowError maps orchestration and gateway errors onto HTTP codes.
func respondFlowError(c *gin.Context, err error) {
	c.JSON(flowErrorStatus(err), gin.H{"error": errMessage(err)})
}

// errMessage renders the error body. FlowError messages are shown as
// written; backend errors go through the gateway's user translation.
func errMessage(err error) string {
	var flowErr *booking.FlowError
	if errors.As(err, &flowErr) {
		return flowErr.Message
	}
	return gateway.UserFacing(err)
}

func flowErrorStatus(err error) int {
	var flowErr *booking.FlowError
	if errors.As(err, &flowErr) {
		switch flowErr.Code {
		case "notFound":
			return http.StatusNotFound
		case "conflictError":
			return http.StatusConflict
		case "reservationExpired":
			return http.StatusGone
		case "slotError", "proofError", "stateError":
			return http.StatusUnprocessableEntity
		}
	}
	if errors.Is(err, gateway.ErrNoToken) {
		return http.StatusUnauthorized
	}
	if _, ok := gateway.IsGatewayError(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
