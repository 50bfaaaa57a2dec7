package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keoroanthony/go-comic-rental/internal/models"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange, key, msg})
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestRabbitPublishJSON(t *testing.T) {
	t.Run("Successfully publishes a persistent JSON message", func(t *testing.T) {
		ch := &fakeChannel{}
		r := &Rabbit{ch: ch, exchange: "comic_rentals"}

		rental := models.Rental{
			ID:         3,
			CustomerID: 1,
			RentalDate: time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC),
			Status:     models.RentalStatusActive,
			Details: []models.RentalDetail{
				{ComicBookID: 5, Quantity: 2, PricePerDay: decimal.RequireFromString("1.50")},
			},
		}
		require.NoError(t, r.PublishJSON(context.Background(), KeyRentalCreated, NewRentalCreated(rental)))
		require.Len(t, ch.sent, 1)

		got := ch.sent[0]
		assert.Equal(t, "comic_rentals", got.exchange)
		assert.Equal(t, KeyRentalCreated, got.key)
		assert.EqualValues(t, amqp.Persistent, got.msg.DeliveryMode)
		assert.Equal(t, "application/json", got.msg.ContentType)

		var body map[string]any
		require.NoError(t, json.Unmarshal(got.msg.Body, &body))
		assert.EqualValues(t, 3, body["rental_id"])
		assert.Equal(t, "3", body["daily_total"])
		assert.Len(t, body["lines"], 1)
	})

	t.Run("Wraps channel errors", func(t *testing.T) {
		r := &Rabbit{ch: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}
		err := r.PublishJSON(context.Background(), KeyRentalDeleted, RentalDeleted{RentalID: 1})
		assert.ErrorContains(t, err, "publish rental.deleted")
	})
}
