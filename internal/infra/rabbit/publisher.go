package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"studyhub/internal/domain"
)

const (
	// DefaultExchange is the topic exchange attempt events go to.
	DefaultExchange = "quiz.attempts"
	// AttemptRecordedRoutingKey tags an attempt written or overwritten by a submission.
	AttemptRecordedRoutingKey = "attempt.recorded"
)

// AttemptEvent is the message body published for every recorded attempt.
type AttemptEvent struct {
	Type    string             `json:"type"`
	Attempt domain.QuizAttempt `json:"attempt"`
}

// AttemptPublisher implements app.AttemptNotifier over RabbitMQ.
type AttemptPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu      sync.Mutex
	channel *amqp.Channel
}

// Dial connects to url and declares exchange as a durable topic exchange.
func Dial(url, exchange string) (*AttemptPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AttemptPublisher{conn: conn, exchange: exchange, channel: ch}, nil
}

func (p *AttemptPublisher) AttemptRecorded(ctx context.Context, attempt domain.QuizAttempt) error {
	msg, err := encodeAttempt(attempt)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx, p.exchange, AttemptRecordedRoutingKey, false, false, msg)
}

func (p *AttemptPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.channel.Close()
	return p.conn.Close()
}

func encodeAttempt(attempt domain.QuizAttempt) (amqp.Publishing, error) {
	body, err := json.Marshal(AttemptEvent{Type: AttemptRecordedRoutingKey, Attempt: attempt})
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode attempt: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    attempt.UserID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}, nil
}
