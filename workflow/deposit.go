// Package workflow implements the money-moving operations: deposit and
// withdrawal approval, product purchase and administrative reversal. Each
// operation is one atomic unit over the ledger; commission settlement runs
// after the triggering unit commits.
package workflow

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/nur922184/server-workbd/ledger"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/referral"
	"github.com/nur922184/server-workbd/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitDeposit records a pending deposit claim. No balance moves until an
// admin approves it. The gateway transaction id is unique across all
// submissions, so resubmitting the same payment is rejected, not doubled.
func SubmitDeposit(db *gorm.DB, userID uint, amount float64, method, externalID string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	if externalID == "" {
		return nil, ErrMissingTransactionID
	}

	var existing models.Transaction
	if err := db.Where("external_id = ?", externalID).First(&existing).Error; err == nil {
		return nil, ErrDuplicateTransactionID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	trx := models.Transaction{
		UserID:          userID,
		Amount:          utils.Round2(amount),
		OrderID:         utils.GenerateOrderID(userID),
		ExternalID:      &externalID,
		TransactionFlow: models.TxFlowCredit,
		TransactionType: models.TxTypeDeposit,
		Method:          &method,
		Status:          models.TxStatusPending,
	}
	if err := db.Create(&trx).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateTransactionID
		}
		return nil, err
	}
	return &trx, nil
}

// SetTransactionStatus settles a pending deposit. Approval credits the
// balance and activates the depositor's referral edge in the same atomic
// unit as the status flip; rejection only flips the status. Commission for
// the depositor's ancestors is distributed after the approval commits, so a
// mid-chain commission failure can never undo the deposit itself.
func SetTransactionStatus(db *gorm.DB, engine *referral.Engine, transactionID uint, status string, adminID uint) (*models.Transaction, error) {
	if status != models.TxStatusApproved && status != models.TxStatusRejected {
		return nil, ErrInvalidStatus
	}

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
		if trx.TransactionType != models.TxTypeDeposit || trx.Status != models.TxStatusPending {
			return ErrInvalidStatus
		}

		now := time.Now()
		if err := tx.Model(&models.Transaction{}).Where("id = ?", trx.ID).Updates(map[string]interface{}{
			"status":      status,
			"approved_by": adminID,
			"approved_at": now,
		}).Error; err != nil {
			return err
		}
		trx.Status = status
		trx.ApprovedBy = &adminID
		trx.ApprovedAt = &now

		if status != models.TxStatusApproved {
			return nil
		}
		if err := ledger.ApplyCredit(tx, trx.UserID, trx.Amount); err != nil {
			return err
		}
		return referral.ActivateEdge(tx, trx.UserID, referral.ActivationDeposit, trx.OrderID)
	})
	if err != nil {
		return nil, err
	}

	if status == models.TxStatusApproved && engine != nil {
		if _, err := engine.Distribute(db, trx.UserID, trx.Amount, referral.EventDeposit, trx.OrderID); err != nil {
			log.Printf("[workflow] commission distribution for %s failed: %v", trx.OrderID, err)
		}
	}
	return &trx, nil
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}
