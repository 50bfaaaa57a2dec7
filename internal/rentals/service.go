// Package rentals implements the rental workflow: the atomic create of a
// rental header with its line items, the hydrated reads, and deletion.
// Every operation takes the request-scoped *gorm.DB it should run against.
package rentals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Keoroanthony/go-comic-rental/internal/models"
)

type LineInput struct {
	ComicBookID uint
	Quantity    int
	// PricePerDay is used as given; nil snapshots the comic book's price.
	PricePerDay *decimal.Decimal
}

type CreateInput struct {
	CustomerID uint
	ReturnDate *time.Time
	Status     string
	Lines      []LineInput
}

// PriceScale is the number of decimal places a price may carry.
const PriceScale = 2

type Service struct {
	// Now stamps RentalDate. Client-supplied dates are never used.
	Now func() time.Time
	Log zerolog.Logger
}

func NewService() *Service {
	return &Service{Now: time.Now, Log: zerolog.Nop()}
}

// Create persists one Rental and one RentalDetail per line, or nothing.
func (s *Service) Create(ctx context.Context, db *gorm.DB, in CreateInput) (*models.Rental, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = models.RentalStatusActive
	}
	rental := models.Rental{
		CustomerID: in.CustomerID,
		RentalDate: s.Now().UTC().Truncate(time.Microsecond),
		ReturnDate: in.ReturnDate,
		Status:     status,
	}

	var details []models.RentalDetail
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&rental).Error; err != nil {
			return &TransactionError{Op: "insert rental", Err: err}
		}

		details = make([]models.RentalDetail, 0, len(in.Lines))
		for _, line := range in.Lines {
			price, err := linePrice(tx, line)
			if err != nil {
				return err
			}
			details = append(details, models.RentalDetail{
				RentalID:    rental.ID,
				ComicBookID: line.ComicBookID,
				Quantity:    line.Quantity,
				PricePerDay: price,
			})
		}

		if len(details) > 0 {
			if err := tx.Omit(clause.Associations).CreateInBatches(&details, len(details)).Error; err != nil {
				return &TransactionError{Op: "insert rental details", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		var te *TransactionError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &TransactionError{Op: "commit", Err: err}
	}

	// The rental is committed at this point; a failed reload still returns it.
	created, err := s.Get(ctx, db, rental.ID)
	if err != nil {
		s.Log.Warn().Err(err).Uint("rental_id", rental.ID).Msg("reload of committed rental failed")
		rental.Details = details
		return &rental, nil
	}
	return created, nil
}

func linePrice(tx *gorm.DB, line LineInput) (decimal.Decimal, error) {
	if line.PricePerDay != nil {
		return *line.PricePerDay, nil
	}
	var comic models.ComicBook
	if err := tx.First(&comic, line.ComicBookID).Error; err != nil {
		return decimal.Zero, &TransactionError{Op: "snapshot comic book price", Err: err}
	}
	return comic.PricePerDay, nil
}

// Validate checks create input before any row is written.
func Validate(in CreateInput) error {
	if in.CustomerID == 0 {
		return &ValidationError{Field: "CustomerID", Reason: "is required"}
	}
	for _, line := range in.Lines {
		if line.ComicBookID == 0 {
			return &ValidationError{Field: "ComicBookID", Reason: "is required"}
		}
		if line.Quantity < 1 {
			return &ValidationError{Field: "Quantity", Reason: "must be a positive integer"}
		}
		if line.PricePerDay != nil {
			if reason := CheckPrice(*line.PricePerDay); reason != "" {
				return &ValidationError{Field: "PricePerDay", Reason: reason}
			}
		}
	}
	return nil
}

// CheckPrice returns why d is not a valid per-day price, or "" when it is.
func CheckPrice(d decimal.Decimal) string {
	if d.IsNegative() {
		return "must not be negative"
	}
	if !d.Equal(d.Round(PriceScale)) {
		return "must have at most 2 decimal places"
	}
	return ""
}

func hydrated(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "RentalDetailID"}})
		}).
		Preload("Details.ComicBook")
}

// Get loads one rental with its customer and details resolved to comic books.
func (s *Service) Get(ctx context.Context, db *gorm.DB, id uint) (*models.Rental, error) {
	var rental models.Rental
	err := hydrated(db.WithContext(ctx)).First(&rental, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (s *Service) List(ctx context.Context, db *gorm.DB) ([]models.Rental, error) {
	var out []models.Rental
	err := hydrated(db.WithContext(ctx)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "RentalID"}}).
		Find(&out).Error
	return out, err
}

// Delete removes the rental; its details go with it through the store's
// cascade. A missing id is not an error and reports false.
func (s *Service) Delete(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	res := db.WithContext(ctx).Delete(&models.Rental{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
