package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const RentalStatusActive = "Active"

// Rental is the header of one customer's borrowing event. Deleting it (or its
// customer) removes the details through the store's FK constraints.
type Rental struct {
	ID         uint           `gorm:"primaryKey;column:RentalID" json:"id"`
	CustomerID uint           `gorm:"column:CustomerID;index;not null" json:"customer_id"`
	Customer   Customer       `gorm:"constraint:OnDelete:CASCADE" json:"customer"`
	RentalDate time.Time      `gorm:"column:RentalDate;not null" json:"rental_date"`
	ReturnDate *time.Time     `gorm:"column:ReturnDate" json:"return_date,omitempty"`
	Status     string         `gorm:"column:Status;not null" json:"status"`
	Details    []RentalDetail `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE" json:"details"`
}

func (Rental) TableName() string { return "Rentals" }

type RentalDetail struct {
	ID          uint            `gorm:"primaryKey;column:RentalDetailID" json:"id"`
	RentalID    uint            `gorm:"column:RentalID;index;not null" json:"rental_id"`
	ComicBookID uint            `gorm:"column:ComicBookID;index;not null" json:"comic_book_id"`
	ComicBook   ComicBook       `gorm:"constraint:OnDelete:CASCADE" json:"comic_book"`
	Quantity    int             `gorm:"column:Quantity;not null" json:"quantity"`
	PricePerDay decimal.Decimal `gorm:"column:PricePerDay;type:decimal(10,2);not null" json:"price_per_day"`
}

func (RentalDetail) TableName() string { return "RentalDetails" }

// DailyTotal is the sum of quantity * price over all lines.
func (r Rental) DailyTotal() decimal.Decimal {
	total := decimal.Zero
	for _, d := range r.Details {
		total = total.Add(d.PricePerDay.Mul(decimal.NewFromInt(int64(d.Quantity))))
	}
	return total
}
