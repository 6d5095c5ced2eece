package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"google.golang.org/api/option"
)

// Config is the typed runtime configuration, read once at startup.
type Config struct {
	HTTPAddr           string
	JWTSecret          string
	GeofenceRadiusKM   float64
	TrackingBaseURL    string
	FCMCredentialsFile string
	OrderEventsTopic   string
	FanoutWorkers      int
	FanoutQueueSize    int
}

func Load() Config {
	return Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		GeofenceRadiusKM:   getEnvFloat("GEOFENCE_RADIUS_KM", 5.0),
		TrackingBaseURL:    getEnv("TRACKING_BASE_URL", "http://localhost:8080"),
		FCMCredentialsFile: os.Getenv("FCM_CREDENTIALS_FILE"),
		OrderEventsTopic:   getEnv("KAFKA_ORDER_EVENTS_TOPIC", "order_events"),
		FanoutWorkers:      getEnvInt("FANOUT_WORKERS", 4),
		FanoutQueueSize:    getEnvInt("FANOUT_QUEUE_SIZE", 256),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func MustInitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

// MustInitFirebaseMessaging builds the FCM client from a service account
// file. Returns nil when no credentials are configured, so local setups
// run without push delivery.
func MustInitFirebaseMessaging(credentialsFile string) *messaging.Client {
	if credentialsFile == "" {
		log.Println("FCM credentials not configured, push delivery disabled")
		return nil
	}

	app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		log.Fatal("Failed to init Firebase app:", err)
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Fatal("Failed to init Firebase messaging:", err)
	}

	return client
}
