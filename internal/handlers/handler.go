// Package handlers exposes the rental workflow over HTML forms and a JSON API.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Keoroanthony/go-comic-rental/internal/db"
	"github.com/Keoroanthony/go-comic-rental/internal/events"
	"github.com/Keoroanthony/go-comic-rental/internal/logging"
	"github.com/Keoroanthony/go-comic-rental/internal/models"
	"github.com/Keoroanthony/go-comic-rental/internal/notifier"
	"github.com/Keoroanthony/go-comic-rental/internal/rentals"
)

type Handler struct {
	DB            *gorm.DB
	Rentals       *rentals.Service
	Notifier      notifier.Notifier
	Events        events.Publisher
	Log           zerolog.Logger
	NotifyTimeout time.Duration
}

// New fills nil collaborators with no-op implementations.
func New(gdb *gorm.DB, svc *rentals.Service, n notifier.Notifier, p events.Publisher, log zerolog.Logger) *Handler {
	if svc == nil {
		svc = rentals.NewService()
	}
	if n == nil {
		n = notifier.Noop{}
	}
	if p == nil {
		p = events.Noop{}
	}
	return &Handler{
		DB:            gdb,
		Rentals:       svc,
		Notifier:      n,
		Events:        p,
		Log:           log,
		NotifyTimeout: 5 * time.Second,
	}
}

// tx returns the request-scoped handle for one request.
func (h *Handler) tx(c *gin.Context) *gorm.DB {
	return h.DB.WithContext(c.Request.Context())
}

func (h *Handler) logger(c *gin.Context) zerolog.Logger {
	return logging.FromContext(c, h.Log)
}

// afterCreate runs notifications and publishes the created event. Failures
// are logged only; the rental is already committed.
func (h *Handler) afterCreate(c *gin.Context, rental models.Rental) {
	log := h.logger(c)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.NotifyTimeout)
	defer cancel()

	if err := h.Notifier.RentalCreated(ctx, rental); err != nil {
		log.Warn().Err(err).Uint("rental_id", rental.ID).Msg("rental notification failed")
	}
	if err := h.Events.PublishJSON(ctx, events.KeyRentalCreated, events.NewRentalCreated(rental)); err != nil {
		log.Warn().Err(err).Uint("rental_id", rental.ID).Msg("rental.created publish failed")
	}
}

func (h *Handler) afterDelete(c *gin.Context, id uint) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.NotifyTimeout)
	defer cancel()

	if err := h.Events.PublishJSON(ctx, events.KeyRentalDeleted, events.RentalDeleted{RentalID: id}); err != nil {
		l := h.logger(c)
		l.Warn().Err(err).Uint("rental_id", id).Msg("rental.deleted publish failed")
	}
}

// logRentalError records a failed rental operation once, with its cause.
func (h *Handler) logRentalError(c *gin.Context, err error, msg string) {
	lvl := zerolog.ErrorLevel
	if rentals.IsValidation(err) {
		lvl = zerolog.WarnLevel
	}
	log := h.logger(c)
	ev := log.WithLevel(lvl).Err(err)
	if db.IsForeignKeyViolation(err) {
		ev = ev.Bool("fk_violation", true).Str("constraint", db.ConstraintName(err))
	}
	ev.Msg(msg)
}

// writeRentalError maps workflow errors onto JSON responses.
func (h *Handler) writeRentalError(c *gin.Context, err error) {
	switch {
	case rentals.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, rentals.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case rentals.IsTransaction(err):
		h.logRentalError(c, err, "rental transaction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create rental"})
	default:
		h.logRentalError(c, err, "rental operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
