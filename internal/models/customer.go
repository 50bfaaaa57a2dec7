package models

import "time"

type Customer struct {
	ID               uint      `gorm:"primaryKey;column:CustomerID" json:"id"`
	FullName         string    `gorm:"column:FullName;not null" json:"full_name"`
	PhoneNumber      string    `gorm:"column:PhoneNumber;not null" json:"phone_number"`
	RegistrationDate time.Time `gorm:"column:RegistrationDate;not null" json:"registration_date"`
}

func (Customer) TableName() string { return "Customers" }
