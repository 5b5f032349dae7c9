package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unveil_server/config"
	"unveil_server/logger"
	"unveil_server/middleware"
	"unveil_server/routes"
	"unveil_server/services"
	"unveil_server/socket"
	"unveil_server/utils"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Storage clients
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	store := services.NewDynamoStore(dynamoService)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		zlog.Fatalw("failed to load AWS config", "error", err)
	}
	s3Client := s3.NewFromConfig(awsCfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})

	// Event sinks: connected sockets first, then push dispatch.
	hub := socket.NewHub(zlog)
	var sender services.PushSender
	if cfg.PushGatewayURL != "" {
		sender = services.NewHTTPPushSender(cfg.PushGatewayURL)
	}
	notifier := services.NewNotificationService(sender, zlog)
	sinks := []services.EventSink{hub, notifier}

	// Domain services share one keyed mutex so every mutation for a
	// match serializes, whichever service starts it.
	locks := utils.NewKeyedMutex()
	matchService := &services.MatchService{
		Store:    store,
		Channels: store,
		Policy:   services.UnlockPolicy{Threshold: cfg.UnlockThreshold},
		Locks:    locks,
		Sinks:    sinks,
		Log:      zlog,
	}
	chatService := &services.ChatService{
		Ledger:   matchService,
		Channels: store,
		Usage:    services.NewUsageService(rdb, cfg.AIDailyQuota, zlog),
		Locks:    locks,
		Sinks:    sinks,
		Log:      zlog,
	}
	profileService := &services.UserProfileService{Store: store, Log: zlog}
	mediaService := services.NewMediaService(s3Client, cfg.S3Bucket, store)

	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Unveil")
	}).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	auth := middleware.Auth(cfg.JWTSecret, zlog)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth)
	routes.RegisterMatchRoutes(api, matchService, zlog)
	routes.RegisterChatRoutes(api, chatService, zlog)
	routes.RegisterMediaRoutes(api, mediaService, matchService, zlog)
	routes.RegisterUserProfileRoutes(api, profileService, zlog)

	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(auth)
	ws.Handle("/chat", socket.NewChatStreamHandler(hub, matchService, zlog))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Infow("starting server", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatalw("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zlog.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Errorw("shutdown failed", "error", err)
	}
}
