package transport

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evreg/registration-service/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	respond        *Responder
}

func NewPaymentHandler(paymentService service.PaymentService, respond *Responder) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, respond: respond}
}

// UpdatePaymentRequest sets a registration's payment status. PaymentDate is
// optional and defaults to now.
type UpdatePaymentRequest struct {
	Paid        *bool      `json:"paid" binding:"required"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
}

func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	registration, err := h.paymentService.SetPaymentStatus(c.Request.Context(), c.Param("reservationId"), *req.Paid, req.PaymentDate)
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.OK(c, registration, "payment status updated")
}

func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	status, err := h.paymentService.GetPaymentStatus(c.Request.Context(), c.Param("reservationId"))
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	if status == nil {
		h.respond.OK(c, nil, "registration not found")
		return
	}
	h.respond.OK(c, status, "")
}
