package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/evreg/registration-service/internal/service"
	"github.com/evreg/registration-service/internal/transport/middleware"
)

type EventHandler struct {
	eventService service.EventService
	respond      *Responder
}

func NewEventHandler(eventService service.EventService, respond *Responder) *EventHandler {
	return &EventHandler{eventService: eventService, respond: respond}
}

// organizerFromContext returns the organizer id set by the auth middleware.
func organizerFromContext(c *gin.Context) string {
	return c.GetString(middleware.OrganizerIDKey)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), organizerFromContext(c), &req)
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.Created(c, event, "event created")
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.GetEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.OK(c, event, "")
}

func (h *EventHandler) GetAllEvents(c *gin.Context) {
	events, err := h.eventService.GetAllEvents(c.Request.Context())
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.OK(c, events, "")
}

func (h *EventHandler) GetMyEvents(c *gin.Context) {
	events, err := h.eventService.GetEventsByCreator(c.Request.Context(), organizerFromContext(c))
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.OK(c, events, "")
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), c.Param("eventId"), organizerFromContext(c), &req)
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.OK(c, event, "event updated")
}

// SetEventEnabledRequest toggles an event's registration flag.
type SetEventEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h *EventHandler) SetEventEnabled(c *gin.Context) {
	var req SetEventEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.eventService.SetEventEnabled(c.Request.Context(), c.Param("eventId"), organizerFromContext(c), *req.Enabled); err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.OK(c, gin.H{"enabled": *req.Enabled}, "event updated")
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventService.DeleteEvent(c.Request.Context(), c.Param("eventId"), organizerFromContext(c)); err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.OK(c, gin.H{"event_id": c.Param("eventId")}, "event deleted")
}
