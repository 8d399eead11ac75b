package appServer

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/evreg/registration-service/config"
	repository "github.com/evreg/registration-service/internal/database/postgres"
	"github.com/evreg/registration-service/internal/service"
	"github.com/evreg/registration-service/internal/transport"
	"github.com/evreg/registration-service/internal/worker"
	"github.com/evreg/registration-service/pkg/postgres"
	"github.com/evreg/registration-service/pkg/rabbitmq"
	"github.com/evreg/registration-service/pkg/redis"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	participantRepo := repository.NewParticipantRepository(db)

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logrus.Warnf("Redis unavailable, rate limiting disabled: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var queue rabbitmq.Queue
	if cfg.RabbitMQ.Enabled {
		rmq, err := rabbitmq.New(rabbitmq.Config{
			URL:       cfg.RabbitMQ.URL,
			QueueName: cfg.RabbitMQ.QueueName,
		})
		if err != nil {
			logrus.Errorf("Failed to initialize RabbitMQ, notifications disabled: %v", err)
		} else {
			queue = rmq
			defer rmq.Close()
		}
	}
	publisher := service.NewQueueAdapter(queue)

	emailService := service.NewEmailValidationService(participantRepo)
	capacityService := service.NewCapacityService(eventRepo)
	registrationService := service.NewRegistrationService(
		eventRepo, registrationRepo, participantRepo, emailService, capacityService, publisher)
	participantService := service.NewParticipantService(eventRepo, registrationRepo, participantRepo)
	paymentService := service.NewPaymentService(registrationRepo, eventRepo, participantRepo, publisher)
	eventService := service.NewEventService(eventRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if queue != nil {
		var sender worker.EmailSender = worker.LogSender{}
		if cfg.Email.Enabled {
			sender = worker.NewSMTPSender(cfg.Email)
		}
		notificationWorker := worker.NewNotificationWorker(queue, sender)
		if err := notificationWorker.Start(ctx); err != nil {
			logrus.Errorf("Failed to start notification worker: %v", err)
		}
	}

	respond := transport.NewResponder(cfg.Server.IsDevelopment())
	handlers := &transport.Handlers{
		Event:        transport.NewEventHandler(eventService, respond),
		Registration: transport.NewRegistrationHandler(registrationService, respond),
		Participant:  transport.NewParticipantHandler(participantService, respond),
		Payment:      transport.NewPaymentHandler(paymentService, respond),
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(cfg, handlers, redisClient)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Info("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Info("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
