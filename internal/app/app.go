package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailadapter "github.com/atelierlaine/reservation-service/internal/adapter/email"
	mongoadapter "github.com/atelierlaine/reservation-service/internal/adapter/mongo"
	natsadapter "github.com/atelierlaine/reservation-service/internal/adapter/nats"
	redisadapter "github.com/atelierlaine/reservation-service/internal/adapter/redis"
	"github.com/atelierlaine/reservation-service/internal/app/config"
	"github.com/atelierlaine/reservation-service/internal/platform/logger"
	httpport "github.com/atelierlaine/reservation-service/internal/port/http"
	"github.com/atelierlaine/reservation-service/internal/service"
	natsgo "github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpport.Server
	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *natsgo.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Errorf("Failed to initialize MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Errorf("Failed to initialize Redis client: %v", err)
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized successfully")

	appLogger.Info("Connecting to NATS...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		appLogger.Errorf("Failed to connect to NATS: %v", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	publisher, err := natsadapter.NewNATSPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}
	appLogger.Info("NATS publisher initialized successfully")

	emailSender, err := emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
	}
	appLogger.Info("SMTP sender initialized")

	creationRepo := mongoadapter.NewCreationRepository(mongoClient, cfg.MongoDB)
	reservationRepo := mongoadapter.NewReservationRepository(mongoClient, cfg.MongoDB)
	creationCache := redisadapter.NewCreationCache(redisClient)
	appLogger.Info("Repositories initialized")

	notifier := service.NewNotifier(emailSender, cfg.Notifications, appLogger)
	reservationService := service.NewReservationService(
		reservationRepo,
		creationRepo,
		creationCache,
		notifier,
		publisher,
		appLogger,
	)
	catalogService := service.NewCatalogService(
		creationRepo,
		reservationRepo,
		creationCache,
		cfg.CreationCache.TTL,
		appLogger,
	)
	appLogger.Info("Services initialized")

	handler := httpport.NewHandler(reservationService, catalogService, appLogger)
	router := httpport.NewRouter(handler, cfg.Auth.JWTSecret, appLogger)
	server := httpport.NewServer(cfg.HTTPServer, router, appLogger)
	appLogger.Info("HTTP server instance created")

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Run(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	a.log.Info("Closing external connections...")

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	a.log.Info("Application shut down successfully")
}
