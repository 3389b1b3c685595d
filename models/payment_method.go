package models

import "time"

// PaymentMethod is a user's registered payout destination (bKash, Nagad, ...).
type PaymentMethod struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Method      string    `gorm:"size:50;not null" json:"method"`
	PhoneNumber string    `gorm:"size:20;not null" json:"phone_number"`
	Status      string    `gorm:"size:20;default:'Active'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}
