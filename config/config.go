package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type Config struct {
	HTTPAddr      string
	PublicBaseURL string
	StorageDriver string
	JWTSecret     string
	JWTTTL        time.Duration
	MenuCacheTTL  time.Duration
	Postgres      PostgresConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
}

type PostgresConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

func (c PostgresConfig) DSN() string {
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.Name + " sslmode=" + c.SSLMode
}

type RedisConfig struct {
	Host string
	Port string
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool { return c.Host != "" }

type KafkaConfig struct {
	Broker      string
	OrdersTopic string
}

func (c KafkaConfig) Enabled() bool { return c.Broker != "" }

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}

	return &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8081"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8081"),
		StorageDriver: getEnv("STORAGE_DRIVER", "postgres"),
		JWTSecret:     getEnv("JWT_SECRET", "changeme"),
		JWTTTL:        getDuration("JWT_TTL", 24*time.Hour),
		MenuCacheTTL:  getDuration("MENU_CACHE_TTL", 5*time.Minute),
		Postgres: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "qrdine"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host: os.Getenv("REDIS_HOST"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		Kafka: KafkaConfig{
			Broker:      os.Getenv("KAFKA_BROKER"),
			OrdersTopic: getEnv("KAFKA_ORDERS_TOPIC", "orders"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go duration strings ("90s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("config: invalid duration %s=%q, using %s", key, v, fallback)
	return fallback
}

func MustInitPostgres(cfg PostgresConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
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

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Host + ":" + cfg.Port,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(cfg KafkaConfig, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Broker},
		Topic:   cfg.OrdersTopic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(cfg.Broker),
		Topic:    cfg.OrdersTopic,
		Balancer: &kafka.Hash{},
	}
}
