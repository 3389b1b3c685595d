package models

import "time"

const (
	HoldingStatusActive    = "active"
	HoldingStatusCompleted = "completed"
)

// UserProduct is a purchased holding. Product fields are snapshotted at
// purchase time so later catalog edits do not change existing holdings.
type UserProduct struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	ProductID       uint       `gorm:"not null;index" json:"product_id"`
	ProductName     string     `gorm:"size:100;not null" json:"product_name"`
	Price           float64    `gorm:"type:decimal(15,2);not null" json:"price"`
	DailyIncome     float64    `gorm:"type:decimal(15,2);not null" json:"daily_income"`
	TotalDays       int        `gorm:"not null" json:"total_days"`
	ReturnRate      float64    `gorm:"type:decimal(8,2);not null" json:"return_rate"`
	Status          string     `gorm:"size:10;default:'active';index" json:"status"`
	RemainingDays   int        `gorm:"not null" json:"remaining_days"`
	TotalEarned     float64    `gorm:"type:decimal(15,2);default:0" json:"total_earned"`
	OrderID         string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	PurchaseDate    time.Time  `gorm:"not null" json:"purchase_date"`
	LastPaymentDate *time.Time `json:"last_payment_date,omitempty"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"-"`
}

func (UserProduct) TableName() string {
	return "user_products"
}
