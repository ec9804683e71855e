package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port        string
	BindAddress string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost string
	RedisPort string

	JWTSecret string

	UploadDir          string
	BaseURL            string
	MagicLinkExpiryMin int
	TokenSweepMinutes  int

	SMTPHost string
	SMTPPort int
	SMTPFrom string

	// Scoring parameters for the quiz engine.
	TimerSeconds int
	MaxScore     int
	MinScore     int
}

func Load() *Config {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		BindAddress: getEnv("BIND_ADDRESS", "localhost"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "pubquiz"),
		DBPassword:  getEnv("DB_PASSWORD", "pubquiz123"),
		DBName:      getEnv("DB_NAME", "pubquiz"),
		RedisHost:   getEnv("REDIS_HOST", "localhost"),
		RedisPort:   getEnv("REDIS_PORT", "6379"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		MagicLinkExpiryMin: getEnvInt("MAGIC_LINK_EXPIRY_MINUTES", 15),
		TokenSweepMinutes:  getEnvInt("TOKEN_SWEEP_MINUTES", 60),

		SMTPHost: getEnv("SMTP_HOST", "localhost"),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPFrom: getEnv("SMTP_FROM", "noreply@pubquiz.local"),

		TimerSeconds: getEnvInt("QUIZ_TIMER_SECONDS", 10),
		MaxScore:     getEnvInt("QUIZ_MAX_SCORE", 100),
		MinScore:     getEnvInt("QUIZ_MIN_SCORE", 50),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func InitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	return client
}
