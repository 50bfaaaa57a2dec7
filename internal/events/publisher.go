// Package events publishes rental domain events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/Keoroanthony/go-comic-rental/internal/models"
)

const (
	KeyRentalCreated = "rental.created"
	KeyRentalDeleted = "rental.deleted"
)

type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
	Close() error
}

type Noop struct{}

func (Noop) PublishJSON(context.Context, string, any) error { return nil }
func (Noop) Close() error                                   { return nil }

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Rabbit struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// NewRabbit dials the broker and declares a durable topic exchange.
func NewRabbit(url, exchange string) (*Rabbit, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Rabbit{conn: conn, ch: ch, exchange: exchange}, nil
}

func (r *Rabbit) Close() error {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func (r *Rabbit) PublishJSON(ctx context.Context, routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	err = r.ch.PublishWithContext(ctx, r.exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

type RentalLine struct {
	ComicBookID uint            `json:"comic_book_id"`
	Quantity    int             `json:"quantity"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
}

type RentalCreated struct {
	RentalID   uint            `json:"rental_id"`
	CustomerID uint            `json:"customer_id"`
	RentalDate time.Time       `json:"rental_date"`
	Status     string          `json:"status"`
	Lines      []RentalLine    `json:"lines"`
	DailyTotal decimal.Decimal `json:"daily_total"`
}

type RentalDeleted struct {
	RentalID uint `json:"rental_id"`
}

func NewRentalCreated(r models.Rental) RentalCreated {
	lines := make([]RentalLine, 0, len(r.Details))
	for _, d := range r.Details {
		lines = append(lines, RentalLine{ComicBookID: d.ComicBookID, Quantity: d.Quantity, PricePerDay: d.PricePerDay})
	}
	return RentalCreated{
		RentalID:   r.ID,
		CustomerID: r.CustomerID,
		RentalDate: r.RentalDate,
		Status:     r.Status,
		Lines:      lines,
		DailyTotal: r.DailyTotal(),
	}
}
