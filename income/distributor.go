// Package income pays per-holding daily income to active product holdings.
package income

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/nur922184/server-workbd/config"
	"github.com/nur922184/server-workbd/ledger"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Result summarizes one distribution run. SkippedRun reports that another
// run was already in flight and this trigger collapsed into a no-op.
type Result struct {
	Processed        int     `json:"processed"`
	Skipped          int     `json:"skipped"`
	TotalDistributed float64 `json:"total_distributed"`
	SkippedRun       bool    `json:"skipped_run,omitempty"`
}

// Distributor scans active holdings and pays each at most once per payout
// window, no matter how often or how concurrently it is triggered.
type Distributor struct {
	db       *gorm.DB
	interval time.Duration
	lease    leaseLock
	running  atomic.Bool
}

func NewDistributor(db *gorm.DB, cfg *config.Config, rdb *redis.Client) *Distributor {
	return &Distributor{
		db:       db,
		interval: cfg.IncomeInterval,
		lease: leaseLock{
			client:   rdb,
			holderID: fmt.Sprintf("workup-%d-%d", time.Now().UnixNano(), utils.GenerateShortID()),
			ttl:      cfg.IncomeLeaseTTL,
		},
	}
}

// Run executes one distribution batch. Overlapping triggers return a benign
// SkippedRun result rather than double-processing the same holdings.
func (d *Distributor) Run(ctx context.Context) (Result, error) {
	if !d.running.CompareAndSwap(false, true) {
		return Result{SkippedRun: true}, nil
	}
	defer d.running.Store(false)

	ok, err := d.lease.acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{SkippedRun: true}, nil
	}
	defer d.lease.release(ctx)

	db := d.db.WithContext(ctx)

	var holdings []models.UserProduct
	if err := db.Where("status = ? AND remaining_days > 0", models.HoldingStatusActive).
		Find(&holdings).Error; err != nil {
		return Result{}, err
	}

	res := Result{}
	now := time.Now()
	for i := range holdings {
		h := holdings[i]

		eligible, err := d.eligible(db, &h, now)
		if err != nil {
			log.Printf("[income] eligibility check failed for holding %d: %v", h.ID, err)
			res.Skipped++
			continue
		}
		if !eligible {
			res.Skipped++
			continue
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			return d.payHolding(tx, &h, now)
		}); err != nil {
			log.Printf("[income] payout failed for holding %d: %v", h.ID, err)
			d.recordFailure(db, &h, err)
			res.Skipped++
			continue
		}

		res.Processed++
		res.TotalDistributed = utils.Round2(res.TotalDistributed + h.DailyIncome)
	}

	log.Printf("[income] distribution done: processed=%d skipped=%d total=%.2f",
		res.Processed, res.Skipped, res.TotalDistributed)
	return res, nil
}

// eligible enforces both guards: the elapsed-time check against the last
// payment, and a lookup for a daily_income transaction already recorded for
// this holding today. The second catches clock skew and concurrent triggers
// that slipped past the first.
func (d *Distributor) eligible(db *gorm.DB, h *models.UserProduct, now time.Time) (bool, error) {
	last := h.PurchaseDate
	if h.LastPaymentDate != nil {
		last = *h.LastPaymentDate
	}
	if now.Sub(last) < d.interval {
		return false, nil
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var n int64
	err := db.Model(&models.Transaction{}).
		Where("user_product_id = ? AND transaction_type = ? AND status = ? AND created_at >= ?",
			h.ID, models.TxTypeDailyIncome, models.TxStatusCompleted, startOfDay).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// payHolding settles one holding: balance credit with its paired
// transaction, accrual on the holding, and the terminal transition to
// completed when the last day is paid.
func (d *Distributor) payHolding(tx *gorm.DB, h *models.UserProduct, now time.Time) error {
	msg := fmt.Sprintf("Daily income from %s", h.ProductName)
	entry := ledger.Entry{
		Type:          models.TxTypeDailyIncome,
		Message:       &msg,
		UserProductID: &h.ID,
	}
	if _, err := ledger.Credit(tx, h.UserID, h.DailyIncome, entry); err != nil {
		return err
	}

	remaining := h.RemainingDays - 1
	updates := map[string]interface{}{
		"total_earned":      gorm.Expr("ROUND(total_earned + ?, 2)", h.DailyIncome),
		"remaining_days":    remaining,
		"last_payment_date": now,
	}
	if remaining <= 0 {
		updates["status"] = models.HoldingStatusCompleted
	}
	return tx.Model(&models.UserProduct{}).Where("id = ?", h.ID).Updates(updates).Error
}

// recordFailure logs a failed holding as data so one bad holding cannot
// block the batch and the failure is visible in the transaction history.
func (d *Distributor) recordFailure(db *gorm.DB, h *models.UserProduct, cause error) {
	msg := fmt.Sprintf("Daily income payout failed for holding %d: %v", h.ID, cause)
	trx := models.Transaction{
		UserID:          h.UserID,
		Amount:          h.DailyIncome,
		OrderID:         utils.GenerateOrderID(h.UserID),
		TransactionFlow: models.TxFlowCredit,
		TransactionType: models.TxTypeSystemError,
		Message:         &msg,
		Status:          models.TxStatusFailed,
		UserProductID:   &h.ID,
	}
	if err := db.Create(&trx).Error; err != nil {
		log.Printf("[income] could not record failure for holding %d: %v", h.ID, err)
	}
}
