// Package ledger is the single write path for user balances. Every business
// credit or debit locks the user row, mutates the balance with an atomic SQL
// increment, and records exactly one paired transaction row, all inside the
// caller's gorm transaction, so either both happen or neither.
package ledger

import (
	"errors"
	"time"

	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry describes the business event behind a balance mutation. Amount and
// flow are filled in by Credit/Debit.
type Entry struct {
	Type          string
	Status        string // defaults to Completed
	OrderID       string // generated when empty
	ExternalID    *string
	Method        *string
	Message       *string
	Charge        float64
	ReferralID    *uint
	UserProductID *uint
	SourceOrderID *string
	ApprovedBy    *uint
}

// LockUser loads the user row under SELECT ... FOR UPDATE. On dialects
// without row locks (sqlite in tests) the clause is skipped; the enclosing
// transaction still serializes the check against the mutation.
func LockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user models.User
	if err := q.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Credit adds amount to the user's balance and records the paired
// transaction. Must be called inside an enclosing gorm transaction.
func Credit(tx *gorm.DB, userID uint, amount float64, e Entry) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := LockUser(tx, userID); err != nil {
		return nil, err
	}
	if err := applyDelta(tx, userID, amount); err != nil {
		return nil, err
	}
	return record(tx, userID, amount, models.TxFlowCredit, e)
}

// Debit removes amount plus e.Charge from the user's balance, failing with
// ErrInsufficientBalance when the locked pre-operation balance does not
// cover it, and records the paired transaction.
func Debit(tx *gorm.DB, userID uint, amount float64, e Entry) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	user, err := LockUser(tx, userID)
	if err != nil {
		return nil, err
	}
	total := utils.Round2(amount + e.Charge)
	if user.Balance < total {
		return nil, ErrInsufficientBalance
	}
	if err := applyDelta(tx, userID, -total); err != nil {
		return nil, err
	}
	return record(tx, userID, amount, models.TxFlowDebit, e)
}

// ApplyCredit mutates the balance without recording a transaction. Used for
// status transitions and reversals whose transaction row already exists.
func ApplyCredit(tx *gorm.DB, userID uint, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := LockUser(tx, userID); err != nil {
		return err
	}
	return applyDelta(tx, userID, amount)
}

// ApplyDebit is the unchecked counterpart of ApplyCredit. Reversals use it,
// so a compensating mutation can push a balance negative.
func ApplyDebit(tx *gorm.DB, userID uint, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := LockUser(tx, userID); err != nil {
		return err
	}
	return applyDelta(tx, userID, -amount)
}

func applyDelta(tx *gorm.DB, userID uint, delta float64) error {
	return tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("ROUND(balance + ?, 2)", delta)).Error
}

func record(tx *gorm.DB, userID uint, amount float64, flow string, e Entry) (*models.Transaction, error) {
	status := e.Status
	if status == "" {
		status = models.TxStatusCompleted
	}
	orderID := e.OrderID
	if orderID == "" {
		orderID = utils.GenerateOrderID(userID)
	}
	trx := models.Transaction{
		UserID:          userID,
		Amount:          utils.Round2(amount),
		Charge:          utils.Round2(e.Charge),
		OrderID:         orderID,
		ExternalID:      e.ExternalID,
		TransactionFlow: flow,
		TransactionType: e.Type,
		Method:          e.Method,
		Message:         e.Message,
		Status:          status,
		ReferralID:      e.ReferralID,
		UserProductID:   e.UserProductID,
		SourceOrderID:   e.SourceOrderID,
		ApprovedBy:      e.ApprovedBy,
	}
	if e.ApprovedBy != nil {
		now := time.Now()
		trx.ApprovedAt = &now
	}
	if err := tx.Create(&trx).Error; err != nil {
		return nil, err
	}
	return &trx, nil
}
