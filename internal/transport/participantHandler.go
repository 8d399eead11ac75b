package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/evreg/registration-service/internal/service"
)

type ParticipantHandler struct {
	participantService service.ParticipantService
	respond            *Responder
}

func NewParticipantHandler(participantService service.ParticipantService, respond *Responder) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService, respond: respond}
}

// ListParticipants returns an event's participants with a summary. With
// ?grouped=true the flat list is re-bucketed by reservation.
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	organizerID := organizerFromContext(c)
	eventID := c.Param("eventId")
	ctx := c.Request.Context()

	if c.Query("grouped") == "true" {
		groups, err := h.participantService.ListGroupedByReservation(ctx, eventID, organizerID)
		if err != nil {
			h.respond.Error(c, err)
			return
		}
		h.respond.OK(c, groups, "")
		return
	}

	listing, err := h.participantService.ListEventParticipants(ctx, eventID, organizerID)
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.OK(c, listing, "")
}

func (h *ParticipantHandler) DeleteReservation(c *gin.Context) {
	organizerID := organizerFromContext(c)
	reservationID := c.Param("reservationId")

	if err := h.participantService.DeleteReservation(c.Request.Context(), reservationID, organizerID); err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.OK(c, gin.H{"reservation_id": reservationID}, "reservation deleted")
}
