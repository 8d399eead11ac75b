package transport

import (
	"github.com/gin-gonic/gin"

	"github.com/evreg/registration-service/internal/entity"
	"github.com/evreg/registration-service/internal/service"
)

type RegistrationHandler struct {
	registrationService service.RegistrationService
	respond             *Responder
}

func NewRegistrationHandler(registrationService service.RegistrationService, respond *Responder) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService, respond: respond}
}

// TeamRegistrationRequest wraps the member list of a team registration.
type TeamRegistrationRequest struct {
	Participants []*service.ParticipantInput `json:"participants"`
	TeamName     string                      `json:"team_name,omitempty"`
}

// ValidateRegistrationRequest is the dry-run payload.
type ValidateRegistrationRequest struct {
	Type         entity.RegistrationType     `json:"type"`
	Participant  *service.ParticipantInput   `json:"participant,omitempty"`
	Participants []*service.ParticipantInput `json:"participants,omitempty"`
}

func (h *RegistrationHandler) RegisterIndividual(c *gin.Context) {
	var input service.ParticipantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.registrationService.RegisterIndividual(c.Request.Context(), c.Param("eventId"), &input)
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.Created(c, result, "registration created")
}

func (h *RegistrationHandler) RegisterTeam(c *gin.Context) {
	var req TeamRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.registrationService.RegisterTeam(c.Request.Context(), c.Param("eventId"), req.Participants)
	if err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.Created(c, result, "team registration created")
}

// ValidateRegistration runs the rule chain without creating anything.
func (h *RegistrationHandler) ValidateRegistration(c *gin.Context) {
	var req ValidateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	regType := req.Type
	inputs := req.Participants
	if regType == "" {
		regType = entity.RegistrationTypeIndividual
	}
	if regType == entity.RegistrationTypeIndividual && req.Participant != nil {
		inputs = []*service.ParticipantInput{req.Participant}
	}

	if err := h.registrationService.ValidateOnly(c.Request.Context(), c.Param("eventId"), regType, inputs); err != nil {
		h.respond.Error(c, err)
		return
	}
	h.respond.OK(c, gin.H{"valid": true}, "registration would be accepted")
}
