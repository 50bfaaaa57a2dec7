package models

import "github.com/shopspring/decimal"

type ComicBook struct {
	ID          uint            `gorm:"primaryKey;column:ComicBookID" json:"id"`
	Title       string          `gorm:"column:Title;not null" json:"title"`
	Author      string          `gorm:"column:Author;not null" json:"author"`
	PricePerDay decimal.Decimal `gorm:"column:PricePerDay;type:decimal(10,2);not null" json:"price_per_day"`
}

func (ComicBook) TableName() string { return "ComicBooks" }
