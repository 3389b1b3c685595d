package models

import "time"

type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	Email            string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"size:255;not null" json:"-"`
	ReffCode         string    `gorm:"size:20;uniqueIndex;not null" json:"reff_code"`
	Balance          float64   `gorm:"type:decimal(15,2);default:0" json:"balance"`
	TotalReferrals   int       `gorm:"default:0" json:"total_referrals"`
	TotalCommission  float64   `gorm:"type:decimal(15,2);default:0" json:"total_commission"`
	ReferralEarnings float64   `gorm:"type:decimal(15,2);default:0" json:"referral_earnings"`
	Status           string    `gorm:"size:20;default:'Active'" json:"status"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
