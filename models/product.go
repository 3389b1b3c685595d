package models

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Price       float64   `gorm:"type:decimal(15,2);not null" json:"price"`
	DailyIncome float64   `gorm:"type:decimal(15,2);not null" json:"daily_income"`
	TotalDays   int       `gorm:"not null" json:"total_days"`
	ReturnRate  float64   `gorm:"type:decimal(8,2);not null" json:"return_rate"`
	Status      string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
