package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/nur922184/server-workbd/ledger"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReverseTransaction unwinds an approved deposit in one atomic unit: the
// credited amount is pulled back (the balance may go negative), the original
// row is marked failed with a compensating debit row beside it, every
// commission paid off this deposit is clawed back from its referrer, and the
// referral edge goes back to pending if this deposit was what activated it.
func ReverseTransaction(db *gorm.DB, transactionID uint, adminID uint) (*models.Transaction, error) {
	var trx models.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "mysql" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&trx, transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if trx.TransactionType != models.TxTypeDeposit || trx.Status != models.TxStatusApproved {
			return ErrInvalidStatus
		}

		if err := ledger.ApplyDebit(tx, trx.UserID, trx.Amount); err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).Where("id = ?", trx.ID).
			UpdateColumn("status", models.TxStatusFailed).Error; err != nil {
			return err
		}
		trx.Status = models.TxStatusFailed

		now := time.Now()
		msg := fmt.Sprintf("Reversal of deposit %s", trx.OrderID)
		comp := models.Transaction{
			UserID:          trx.UserID,
			Amount:          trx.Amount,
			OrderID:         utils.GenerateOrderID(trx.UserID),
			TransactionFlow: models.TxFlowDebit,
			TransactionType: models.TxTypeDeposit,
			Message:         &msg,
			Status:          models.TxStatusCompleted,
			SourceOrderID:   &trx.OrderID,
			ApprovedBy:      &adminID,
			ApprovedAt:      &now,
		}
		if err := tx.Create(&comp).Error; err != nil {
			return err
		}

		if err := clawBackCommissions(tx, &trx, adminID); err != nil {
			return err
		}

		// The edge falls back to pending only when this deposit was its
		// activation event; an edge activated by another deposit or a
		// purchase keeps its status.
		return tx.Model(&models.Referral{}).
			Where("referred_user_id = ? AND activation_order_id = ?", trx.UserID, trx.OrderID).
			Updates(map[string]interface{}{
				"status":              models.ReferralStatusPending,
				"has_deposited":       false,
				"activation_order_id": nil,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

// clawBackCommissions reverses every completed commission credit whose
// source is the reversed deposit, including the lifetime counters and the
// per-edge accrual those credits bumped.
func clawBackCommissions(tx *gorm.DB, trx *models.Transaction, adminID uint) error {
	var comms []models.Transaction
	if err := tx.Where("source_order_id = ? AND transaction_type = ? AND status = ?",
		trx.OrderID, models.TxTypeReferralCommission, models.TxStatusCompleted).
		Find(&comms).Error; err != nil {
		return err
	}

	now := time.Now()
	for i := range comms {
		c := comms[i]
		if err := ledger.ApplyDebit(tx, c.UserID, c.Amount); err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).Where("id = ?", c.ID).
			UpdateColumn("status", models.TxStatusFailed).Error; err != nil {
			return err
		}

		msg := fmt.Sprintf("Commission clawback for reversed deposit %s", trx.OrderID)
		comp := models.Transaction{
			UserID:          c.UserID,
			Amount:          c.Amount,
			OrderID:         utils.GenerateOrderID(c.UserID),
			TransactionFlow: models.TxFlowDebit,
			TransactionType: models.TxTypeReferralCommission,
			Message:         &msg,
			Status:          models.TxStatusCompleted,
			ReferralID:      c.ReferralID,
			SourceOrderID:   &trx.OrderID,
			ApprovedBy:      &adminID,
			ApprovedAt:      &now,
		}
		if err := tx.Create(&comp).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", c.UserID).Updates(map[string]interface{}{
			"total_commission":  gorm.Expr("ROUND(total_commission - ?, 2)", c.Amount),
			"referral_earnings": gorm.Expr("ROUND(referral_earnings - ?, 2)", c.Amount),
		}).Error; err != nil {
			return err
		}
		if c.ReferralID != nil {
			if err := tx.Model(&models.Referral{}).Where("id = ?", *c.ReferralID).
				UpdateColumn("total_earned", gorm.Expr("ROUND(total_earned - ?, 2)", c.Amount)).Error; err != nil {
				return err
			}
		}
	}

	return tx.Where("source_order_id = ?", trx.OrderID).
		Delete(&models.ReferralCommission{}).Error
}
