package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/excalibur-systems/maintenance-api/internal/auth"
	"github.com/excalibur-systems/maintenance-api/internal/db"
	"github.com/excalibur-systems/maintenance-api/internal/handlers"
	"github.com/excalibur-systems/maintenance-api/internal/middleware"
	"github.com/excalibur-systems/maintenance-api/internal/notify"
	"github.com/excalibur-systems/maintenance-api/internal/sweeper"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment as is")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	log.Info("connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "maintenance"
	}
	database := client.Database(dbName)

	records := &db.MongoRecordCollection{Collection: database.Collection("records")}
	lookups := &db.MongoLookupCollection{Collection: database.Collection("lookups")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	profiles := &db.MongoProfileCollection{Collection: database.Collection("profiles")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("failed to create auth service")
	}

	authHandler := handlers.NewAuthHandler(authService, users, profiles)
	recordHandler := handlers.NewRecordHandler(records)
	lookupHandler := handlers.NewLookupHandler(lookups)

	authMW := middleware.NewAuthMiddleware(authService)
	rateMW := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.Profile)
	mux.HandleFunc("/api/records", recordHandler.Collection)
	mux.HandleFunc("/api/records/next-code", recordHandler.NextCode)
	mux.HandleFunc("/api/records/", recordHandler.Item)
	mux.HandleFunc("/api/stats", recordHandler.Stats)
	mux.HandleFunc("/api/alerts", recordHandler.Alerts)
	mux.HandleFunc("/api/mechanics", lookupHandler.Mechanics)
	mux.HandleFunc("/api/equipment", lookupHandler.Equipment)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	handler := rateMW.RateLimit(300, 60)(authMW.Authenticate(mux))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional MQTT alert fan-out for the sweeper
	var notifier sweeper.Notifier
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		mqttNotifier, err := notify.NewMQTTNotifier(broker, "maintenance-api", os.Getenv("MQTT_ALERT_TOPIC"))
		if err != nil {
			log.WithError(err).Warn("MQTT unavailable, alerts will only be logged")
		} else {
			defer mqttNotifier.Close()
			notifier = mqttNotifier
			log.WithField("broker", broker).Info("publishing alerts over MQTT")
		}
	}

	sw := sweeper.New(records, notifier)
	go sw.Run(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{Addr: ":" + port, Handler: handler}
	go func() {
		log.WithField("port", port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}
