package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию сервиса симуляции сценариев.
type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`

	// Настройки HTTP сервера
	ServerPort          string `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSeconds  int    `envconfig:"SERVER_READ_TIMEOUT_SECONDS" default:"15"`
	WriteTimeoutSeconds int    `envconfig:"SERVER_WRITE_TIMEOUT_SECONDS" default:"60"`

	// CORS
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Настройки AI (OpenRouter-совместимый endpoint или Ollama)
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"openai"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AIModel      string        `envconfig:"AI_MODEL" default:"deepseek/deepseek-chat"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	AIAPIKey     string        `envconfig:"AI_API_KEY"`

	// Повторы вызовов AI
	AIMaxAttempts    int           `envconfig:"AI_MAX_ATTEMPTS" default:"3"`
	AIBaseRetryDelay time.Duration `envconfig:"AI_BASE_RETRY_DELAY" default:"1s"`
	AIMaxRetryDelay  time.Duration `envconfig:"AI_MAX_RETRY_DELAY" default:"10s"`

	// Настройки симулятора (стартовые; меняются на лету через API)
	SimMaxProcessingTime  time.Duration `envconfig:"SIM_MAX_PROCESSING_TIME" default:"30s"`
	SimParallelGeneration bool          `envconfig:"SIM_PARALLEL_GENERATION" default:"true"`
	SimEnableLogging      bool          `envconfig:"SIM_ENABLE_LOGGING" default:"true"`
	SimEnableMetrics      bool          `envconfig:"SIM_ENABLE_METRICS" default:"true"`

	// Настройки PostgreSQL для хранения фидбека.
	// Если DB_HOST пуст, используется in-memory хранилище.
	DBHost        string        `envconfig:"DB_HOST"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string        `envconfig:"DB_PASSWORD"`
	DBName        string        `envconfig:"DB_NAME" default:"whatif_db"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`

	// Redis для кэша результатов. Пустой адрес выключает кэш.
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	// RabbitMQ для событий завершенных симуляций. Пустой URL выключает.
	RabbitMQURL string `envconfig:"RABBITMQ_URL"`
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// GetAllowedOrigins разбивает строку CORS_ALLOWED_ORIGINS на список.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// LoadConfig загружает конфигурацию из .env (если есть) и переменных окружения.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: could not load %s file: %v", envFilePath, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Логируем загруженную конфигурацию (без секретов)
	log.Printf("Конфигурация загружена:")
	log.Printf("  Env: %s, LogLevel: %s, Port: %s", cfg.Env, cfg.LogLevel, cfg.ServerPort)
	log.Printf("  AI: type=%s, model=%s, baseURL=%s, timeout=%v", cfg.AIClientType, cfg.AIModel, cfg.AIBaseURL, cfg.AITimeout)
	log.Printf("  AI retries: attempts=%d, baseDelay=%v, maxDelay=%v", cfg.AIMaxAttempts, cfg.AIBaseRetryDelay, cfg.AIMaxRetryDelay)
	log.Printf("  Simulator: maxProcessingTime=%v, parallel=%v", cfg.SimMaxProcessingTime, cfg.SimParallelGeneration)
	if cfg.AIAPIKey != "" {
		log.Println("  AI API Key: [ЗАГРУЖЕН]")
	}
	if cfg.DBHost != "" {
		log.Printf("  DB: %s (feedback storage: postgres)", cfg.getMaskedDSN())
	} else {
		log.Println("  DB: не задан (feedback storage: in-memory)")
	}
	if cfg.RedisAddr != "" {
		log.Printf("  Redis: %s (result cache, TTL %v)", cfg.RedisAddr, cfg.CacheTTL)
	}
	if cfg.RabbitMQURL != "" {
		log.Println("  RabbitMQ: [ЗАГРУЖЕН] (simulation events)")
	}

	return &cfg, nil
}

// getMaskedDSN возвращает DSN с замаскированным паролем для логирования.
func (c *Config) getMaskedDSN() string {
	dsn := c.GetDSN()
	parts := strings.Split(dsn, "@")
	if len(parts) != 2 {
		return "[invalid dsn format]"
	}
	userInfo := strings.Split(parts[0], ":")
	if len(userInfo) >= 2 {
		userInfo[len(userInfo)-1] = "********"
	}
	return strings.Join(userInfo, ":") + "@" + parts[1]
}
