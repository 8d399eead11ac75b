package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/evreg/registration-service/config"
	"github.com/evreg/registration-service/internal/transport/middleware"
)

// Handlers bundles the constructed HTTP handlers for route wiring.
type Handlers struct {
	Event        *EventHandler
	Registration *RegistrationHandler
	Participant  *ParticipantHandler
	Payment      *PaymentHandler
}

func InitRoutes(cfg *config.Config, h *Handlers, redisClient *redis.Client) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimit))

	auth := middleware.Auth(cfg.Auth.JWTSecret)

	api := router.Group("/api/v1")
	{
		events := api.Group("/events")
		{
			events.GET("", h.Event.GetAllEvents)
			events.GET("/:eventId", h.Event.GetEvent)

			events.POST("", auth, h.Event.CreateEvent)
			events.GET("/mine", auth, h.Event.GetMyEvents)
			events.PUT("/:eventId", auth, h.Event.UpdateEvent)
			events.PATCH("/:eventId/enabled", auth, h.Event.SetEventEnabled)
			events.DELETE("/:eventId", auth, h.Event.DeleteEvent)

			events.POST("/:eventId/registrations", h.Registration.RegisterIndividual)
			events.POST("/:eventId/registrations/team", h.Registration.RegisterTeam)
			events.POST("/:eventId/registrations/validate", h.Registration.ValidateRegistration)

			events.GET("/:eventId/participants", auth, h.Participant.ListParticipants)
		}

		registrations := api.Group("/registrations")
		{
			registrations.PATCH("/:reservationId/payment", h.Payment.UpdatePaymentStatus)
			registrations.GET("/:reservationId/payment", h.Payment.GetPaymentStatus)
			registrations.DELETE("/:reservationId", auth, h.Participant.DeleteReservation)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   "registration-service",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	return router
}
