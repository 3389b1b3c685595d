package models

import "time"

// Transaction types. Every balance mutation that represents a business event
// is paired with exactly one row of one of these types.
const (
	TxTypeDeposit            = "deposit"
	TxTypeWithdrawal         = "withdrawal"
	TxTypePurchase           = "purchase"
	TxTypeDailyIncome        = "daily_income"
	TxTypeReferralCommission = "referral_commission"
	TxTypeReferralBonus      = "referral_bonus"
	TxTypeSystemError        = "system_error"
)

// Transaction statuses. Pending -> Approved | Rejected for deposits and
// withdrawals; everything settled immediately is created as Completed.
const (
	TxStatusPending   = "Pending"
	TxStatusApproved  = "Approved"
	TxStatusRejected  = "Rejected"
	TxStatusCompleted = "Completed"
	TxStatusFailed    = "Failed"
)

const (
	TxFlowDebit  = "debit"
	TxFlowCredit = "credit"
)

type Transaction struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	Amount          float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Charge          float64    `gorm:"type:decimal(15,2);not null;default:0.00" json:"charge"`
	OrderID         string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	ExternalID      *string    `gorm:"type:varchar(191);uniqueIndex" json:"external_id,omitempty"`
	TransactionFlow string     `gorm:"size:10;not null" json:"transaction_flow"`
	TransactionType string     `gorm:"type:varchar(50);not null;index" json:"transaction_type"`
	Method          *string    `gorm:"type:varchar(50)" json:"method,omitempty"`
	Message         *string    `gorm:"type:text" json:"message,omitempty"`
	Status          string     `gorm:"size:20;not null;default:'Pending'" json:"status"`
	ReferralID      *uint      `gorm:"index" json:"referral_id,omitempty"`
	UserProductID   *uint      `gorm:"index" json:"user_product_id,omitempty"`
	SourceOrderID   *string    `gorm:"type:varchar(191);index" json:"source_order_id,omitempty"`
	ApprovedBy      *uint      `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
