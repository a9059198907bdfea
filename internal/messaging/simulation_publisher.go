// Package messaging публикует события завершенных симуляций в RabbitMQ.
// События потребляются внешней аналитикой, ядро симуляции о них не знает.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const simulationEventsExchange = "whatif.simulation.events"

// SimulationEvent - событие завершенной симуляции.
type SimulationEvent struct {
	RequestID        string    `json:"request_id"`
	ScenarioType     string    `json:"scenario_type,omitempty"`
	Complexity       string    `json:"complexity,omitempty"`
	Success          bool      `json:"success"`
	ErrorKind        string    `json:"error_kind,omitempty"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing simulation events.
type EventPublisher interface {
	PublishSimulationEvent(ctx context.Context, event SimulationEvent) error
	Close() error
}

// rabbitMQEventPublisher implements EventPublisher on top of a fanout exchange.
type rabbitMQEventPublisher struct {
	channel *amqp.Channel
	logger  zerolog.Logger
}

// NewRabbitMQEventPublisher открывает канал и объявляет fanout exchange.
// Соединением управляет вызывающая сторона.
func NewRabbitMQEventPublisher(conn *amqp.Connection, logger zerolog.Logger) (EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("event publisher: не удалось открыть канал: %w", err)
	}

	// Fanout: каждый подписчик получает все события со своей очередью.
	err = ch.ExchangeDeclare(
		simulationEventsExchange, // name
		"fanout",                 // type
		true,                     // durable
		false,                    // auto-deleted
		false,                    // internal
		false,                    // no-wait
		nil,                      // args
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("event publisher: не удалось объявить exchange '%s': %w", simulationEventsExchange, err)
	}

	logger.Info().Str("exchange", simulationEventsExchange).Msg("Simulation event publisher initialized")
	return &rabbitMQEventPublisher{channel: ch, logger: logger}, nil
}

// PublishSimulationEvent publishes a completed simulation event.
func (p *rabbitMQEventPublisher) PublishSimulationEvent(ctx context.Context, event SimulationEvent) error {
	if p.channel == nil {
		return errors.New("канал RabbitMQ не инициализирован")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("request_id", event.RequestID).Msg("Ошибка сериализации SimulationEvent")
		return fmt.Errorf("ошибка сериализации события симуляции %s: %w", event.RequestID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		simulationEventsExchange, // exchange
		"",                       // routing key (fanout игнорирует)
		false,                    // mandatory
		false,                    // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			AppId:        "whatif-server",
		},
	)
	if err != nil {
		p.logger.Error().Err(err).Str("request_id", event.RequestID).Msg("Ошибка публикации SimulationEvent")
		return fmt.Errorf("ошибка публикации события симуляции %s: %w", event.RequestID, err)
	}

	p.logger.Debug().Str("request_id", event.RequestID).Bool("success", event.Success).Msg("Событие симуляции опубликовано")
	return nil
}

// Close закрывает канал публикации.
func (p *rabbitMQEventPublisher) Close() error {
	if p.channel == nil {
		return nil
	}
	return p.channel.Close()
}
