package models

import "time"

type Withdrawal struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	PaymentMethodID uint           `gorm:"not null;index" json:"payment_method_id"`
	Amount          float64        `gorm:"type:decimal(15,2);not null" json:"amount"`
	Charge          float64        `gorm:"type:decimal(15,2);not null;default:0.00" json:"charge"`
	OrderID         string         `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	Status          string         `gorm:"size:20;not null;default:'Pending'" json:"status"`
	ApprovedBy      *uint          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	PaymentMethod   *PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
