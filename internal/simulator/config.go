package simulator

import "time"

// Config - изменяемая во время работы конфигурация симулятора.
// Каждый вызов ProcessScenario снимает снапшот один раз на входе:
// конкурентный UpdateConfig не влияет на уже начатые запросы.
type Config struct {
	EnableLogging            bool          `json:"enableLogging"`
	EnableMetrics            bool          `json:"enableMetrics"`
	MaxProcessingTime        time.Duration `json:"maxProcessingTime"`
	EnableParallelGeneration bool          `json:"enableParallelGeneration"`
}

// ConfigUpdate - частичное обновление конфигурации. Nil-поля не трогаются.
// Слияние одноуровневое: каждое верхнеуровневое поле заменяется целиком.
type ConfigUpdate struct {
	EnableLogging            *bool          `json:"enableLogging,omitempty"`
	EnableMetrics            *bool          `json:"enableMetrics,omitempty"`
	MaxProcessingTime        *time.Duration `json:"maxProcessingTime,omitempty"`
	EnableParallelGeneration *bool          `json:"enableParallelGeneration,omitempty"`
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		EnableLogging:            true,
		EnableMetrics:            true,
		MaxProcessingTime:        30 * time.Second,
		EnableParallelGeneration: true,
	}
}

// merged возвращает копию c с примененными ненулевыми полями update.
func (c Config) merged(update ConfigUpdate) Config {
	if update.EnableLogging != nil {
		c.EnableLogging = *update.EnableLogging
	}
	if update.EnableMetrics != nil {
		c.EnableMetrics = *update.EnableMetrics
	}
	if update.MaxProcessingTime != nil {
		c.MaxProcessingTime = *update.MaxProcessingTime
	}
	if update.EnableParallelGeneration != nil {
		c.EnableParallelGeneration = *update.EnableParallelGeneration
	}
	return c
}
