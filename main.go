package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/hamza-bely/4hybd/internal/clients"
	"github.com/hamza-bely/4hybd/internal/config"
	"github.com/hamza-bely/4hybd/internal/db"
	"github.com/hamza-bely/4hybd/internal/handlers"
	"github.com/hamza-bely/4hybd/internal/logging"
	"github.com/hamza-bely/4hybd/internal/middleware"
	"github.com/hamza-bely/4hybd/internal/observability"
	"github.com/hamza-bely/4hybd/internal/position"
	"github.com/hamza-bely/4hybd/internal/rabbitmq"
	"github.com/hamza-bely/4hybd/internal/repositories"
	"github.com/hamza-bely/4hybd/internal/telemetry"
	"github.com/hamza-bely/4hybd/internal/ws"
)

const serviceName = "4hybd"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		logger.Fatalw("failed to set up tracing", "error", err)
	}
	defer shutdownTracing(context.Background())

	database, err := db.Connect(cfg.DBPath)
	if err != nil {
		logger.Fatalw("failed to open local store", "error", err)
	}
	defer database.Close()

	sessionRepo := repositories.NewSessionRepo(database)
	preferenceRepo := repositories.NewPreferenceRepo(database)

	messageClient := clients.NewMessageClient(cfg.MessageServiceURL, nil)
	storyClient := clients.NewStoryClient(cfg.StoryServiceURL, nil)
	userClient := clients.NewUserClient(cfg.UserServiceURL, nil)

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
	defer publisher.Close()
	logger.Infow("event publisher ready",
		"mode", rabbitmq.PublisherMode(publisher),
		"reason", rabbitmq.PublisherNoopReason(publisher))

	emitter := telemetry.NewAuditEmitter(publisher, "audit.snap", serviceName, cfg.Environment, logger)

	var positions position.Provider
	if cfg.DevicePosition != "" {
		point, err := position.ParsePoint(cfg.DevicePosition)
		if err != nil {
			logger.Fatalw("invalid device position", "error", err)
		}
		positions = position.Static{Point: point}
	}

	hub := ws.NewHub(publisher, logger)

	conversationHandler := handlers.NewConversationHandler(messageClient, userClient, emitter)
	storyHandler := handlers.NewStoryHandler(storyClient, positions, cfg.MaxDistanceKm, cfg.PositionTimeout)
	sessionHandler := handlers.NewSessionHandler(userClient, sessionRepo, emitter)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceRepo)
	playbackWS := ws.NewPlaybackWebSocketHandler(hub, storyClient, sessionRepo, positions, cfg.MaxDistanceKm, cfg.PositionTimeout)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/auth/login", sessionHandler.Login)

	authMiddleware := middleware.AuthMiddleware(sessionRepo)

	router.POST("/auth/logout", authMiddleware, sessionHandler.Logout)
	router.GET("/me", authMiddleware, sessionHandler.CurrentUser)

	router.GET("/conversations", authMiddleware, conversationHandler.ListConversations)
	router.GET("/conversations/messages", authMiddleware, conversationHandler.ConversationMessages)
	router.POST("/messages", authMiddleware, conversationHandler.SendMessage)

	router.GET("/stories/nearby", authMiddleware, storyHandler.NearbyStories)
	router.GET("/stories/:story_id", authMiddleware, storyHandler.StoryByID)

	router.GET("/preferences", authMiddleware, preferenceHandler.ListPreferences)
	router.GET("/preferences/:key", authMiddleware, preferenceHandler.GetPreference)
	router.PUT("/preferences/:key", authMiddleware, preferenceHandler.PutPreference)
	router.DELETE("/preferences/:key", authMiddleware, preferenceHandler.DeletePreference)

	router.GET("/ws/playback", playbackWS.Handle)

	handlers.RegisterDebugRoutes(router, emitter, cfg.Debug)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infow("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")

	hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("server shutdown", "error", err)
	}
}
