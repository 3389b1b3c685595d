package workflow

import (
	"errors"
	"time"

	"github.com/nur922184/server-workbd/config"
	"github.com/nur922184/server-workbd/ledger"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitWithdrawal debits the requested amount plus the service charge
// immediately, so the held funds cannot be spent twice while the request
// waits for review. The pending transaction and the withdrawal record share
// one order id.
func SubmitWithdrawal(db *gorm.DB, cfg *config.Config, userID, paymentMethodID uint, amount float64) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	if amount < cfg.MinWithdraw {
		return nil, ErrBelowMinimum
	}

	var pm models.PaymentMethod
	if err := db.Where("id = ? AND user_id = ?", paymentMethodID, userID).First(&pm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}

	charge := utils.Round2(amount * cfg.WithdrawChargePercent / 100)
	orderID := utils.GenerateOrderID(userID)
	wd := models.Withdrawal{
		UserID:          userID,
		PaymentMethodID: pm.ID,
		Amount:          utils.Round2(amount),
		Charge:          charge,
		OrderID:         orderID,
		Status:          models.TxStatusPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		entry := ledger.Entry{
			Type:    models.TxTypeWithdrawal,
			Status:  models.TxStatusPending,
			OrderID: orderID,
			Charge:  charge,
			Method:  &pm.Method,
		}
		if _, err := ledger.Debit(tx, userID, amount, entry); err != nil {
			return err
		}
		return tx.Create(&wd).Error
	})
	if err != nil {
		return nil, err
	}
	return &wd, nil
}

// SetWithdrawalStatus settles a pending withdrawal. Approval is a ledger
// no-op because the funds were already held at submission; rejection puts
// the full hold, amount plus charge, back on the balance.
func SetWithdrawalStatus(db *gorm.DB, withdrawalID uint, status string, adminID uint) (*models.Withdrawal, error) {
	if status != models.TxStatusApproved && status != models.TxStatusRejected {
		return nil, ErrInvalidStatus
	}

	var wd models.Withdrawal
	err := db.Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "mysql" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&wd, withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if wd.Status != models.TxStatusPending {
			return ErrInvalidStatus
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":      status,
			"approved_by": adminID,
			"approved_at": now,
		}
		if err := tx.Model(&models.Withdrawal{}).Where("id = ?", wd.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).Where("order_id = ?", wd.OrderID).Updates(updates).Error; err != nil {
			return err
		}
		wd.Status = status
		wd.ApprovedBy = &adminID
		wd.ApprovedAt = &now

		if status == models.TxStatusRejected {
			refund := utils.Round2(wd.Amount + wd.Charge)
			return ledger.ApplyCredit(tx, wd.UserID, refund)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &wd, nil
}
