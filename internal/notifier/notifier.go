// Package notifier tells people about committed rentals: an SMS to the
// customer and an email receipt to the shop. Delivery is best-effort.
package notifier

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	config "github.com/Keoroanthony/go-comic-rental/configs"
	"github.com/Keoroanthony/go-comic-rental/internal/models"
)

type Notifier interface {
	RentalCreated(ctx context.Context, rental models.Rental) error
}

type Noop struct{}

func (Noop) RentalCreated(context.Context, models.Rental) error { return nil }

// Multi fans a rental out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) RentalCreated(ctx context.Context, rental models.Rental) error {
	var errs []error
	for _, n := range m {
		if err := n.RentalCreated(ctx, rental); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromConfig builds the notifiers whose credentials are configured.
func FromConfig(ctx context.Context, cfg config.Config, log zerolog.Logger) (Notifier, error) {
	var m Multi
	if cfg.AfricaTalking.Enabled() {
		m = append(m, NewSMSNotifier(cfg.AfricaTalking, nil, log))
	}
	if cfg.Email.Enabled() {
		email, err := NewEmailNotifier(ctx, cfg.Email, log)
		if err != nil {
			return nil, err
		}
		m = append(m, email)
	}
	if len(m) == 0 {
		log.Info().Msg("no notifiers configured")
		return Noop{}, nil
	}
	return m, nil
}
