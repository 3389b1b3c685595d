package models

import "time"

const (
	ReferralStatusPending = "pending"
	ReferralStatusActive  = "active"
)

// Referral is the edge referrer -> referred. The unique index on
// referred_user_id enforces the single-referrer invariant at the database,
// so two racing registrations cannot both insert an edge.
type Referral struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ReferrerUserID    uint      `gorm:"not null;index" json:"referrer_user_id"`
	ReferrerEmail     string    `gorm:"size:191;not null" json:"referrer_email"`
	ReferredUserID    uint      `gorm:"not null;uniqueIndex" json:"referred_user_id"`
	ReferredEmail     string    `gorm:"size:191;not null" json:"referred_email"`
	Status            string    `gorm:"size:10;default:'pending'" json:"status"`
	HasDeposited      bool      `gorm:"default:false" json:"has_deposited"`
	HasPurchased      bool      `gorm:"default:false" json:"has_purchased"`
	TotalEarned       float64   `gorm:"type:decimal(15,2);default:0" json:"total_earned"`
	ActivationOrderID *string   `gorm:"type:varchar(191)" json:"activation_order_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"-"`
}

func (Referral) TableName() string {
	return "referrals"
}

// ReferralCommission is one entry of an edge's commission history.
type ReferralCommission struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ReferralID     uint      `gorm:"not null;index" json:"referral_id"`
	ReferrerUserID uint      `gorm:"not null;index" json:"referrer_user_id"`
	Level          int       `gorm:"not null" json:"level"`
	Rate           float64   `gorm:"type:decimal(6,4);not null" json:"rate"`
	SourceAmount   float64   `gorm:"type:decimal(15,2);not null" json:"source_amount"`
	Amount         float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	EventType      string    `gorm:"type:varchar(20);not null" json:"event_type"`
	SourceOrderID  string    `gorm:"type:varchar(191);not null;index" json:"source_order_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ReferralCommission) TableName() string {
	return "referral_commissions"
}
