package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"fastfoodie/config"
	httpapi "fastfoodie/internal/api/http"
	"fastfoodie/internal/mw"
	"fastfoodie/internal/push"
	"fastfoodie/internal/realtime"
	"fastfoodie/internal/service"
	"fastfoodie/internal/storage"
	"fastfoodie/internal/worker"
)

func main() {
	cfg := config.Load()

	db := config.MustInitPostgres()
	defer db.Close()
	if err := storage.EnsureSchema(db); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter(cfg.OrderEventsTopic)
	defer kafkaWriter.Close()

	orders := storage.NewOrderRepository(db)
	partners := storage.NewPartnerRepository(db)
	notifications := storage.NewNotificationRepository(db)
	tokens := storage.NewTokenRepository(db)
	events := storage.NewKafkaEventPublisher(kafkaWriter)

	var pusher service.Pusher = push.Disabled{}
	if fcm := config.MustInitFirebaseMessaging(cfg.FCMCredentialsFile); fcm != nil {
		pusher = push.NewDispatcher(fcm, tokens, push.NewTokenHealth(tokens))
	}

	bus := realtime.NewRedisBus(rdb)
	hub := realtime.NewHub(bus)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go bus.Subscribe(ctx, hub)

	pool := worker.New(cfg.FanoutWorkers, cfg.FanoutQueueSize)

	notifier := service.NewNotifier(notifications, partners, orders, pusher, hub, events, pool, cfg.GeofenceRadiusKM)
	orderService := service.NewOrderService(orders, partners, notifier, cfg.GeofenceRadiusKM, cfg.TrackingBaseURL)
	notificationService := service.NewNotificationService(notifications, tokens)

	r := mux.NewRouter()
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ws", realtime.ServeWS(hub)).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mw.AuthMiddleware(cfg.JWTSecret))
	httpapi.NewHandler(orderService, notificationService).RegisterRoutes(api)

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Dispatch service starting on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Server shutdown:", err)
	}
	pool.Shutdown(shutdownCtx)
	hub.Close()
	log.Println("Stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"fastfoodie-dispatch"}`))
}
