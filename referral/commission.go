package referral

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/nur922184/server-workbd/config"
	"github.com/nur922184/server-workbd/ledger"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	"gorm.io/gorm"
)

// Commission-triggering event types.
const (
	EventDeposit    = "deposit"
	EventWithdrawal = "withdrawal"
	EventPurchase   = "purchase"
)

// minPayable is the smallest commission worth recording (one minor unit).
const minPayable = 0.01

// Engine distributes referral commission up the chain for a triggering
// monetary event.
type Engine struct {
	levels int
	tiers  []config.CommissionTier // sorted by MinActiveReferrals descending
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-wide engine built from configuration.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = NewEngine(config.Get())
	})
	return defaultEngine
}

func NewEngine(cfg *config.Config) *Engine {
	tiers := make([]config.CommissionTier, len(cfg.CommissionTiers))
	copy(tiers, cfg.CommissionTiers)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinActiveReferrals > tiers[j].MinActiveReferrals
	})
	return &Engine{levels: cfg.CommissionLevels, tiers: tiers}
}

// TierFor resolves the commission bracket for a referrer with the given live
// active-referral count: highest tier first, first satisfied minimum wins.
// The tier is re-derived on every event, never cached on the user record.
func (e *Engine) TierFor(activeReferrals int64) (config.CommissionTier, bool) {
	for _, t := range e.tiers {
		if activeReferrals >= int64(t.MinActiveReferrals) {
			return t, true
		}
	}
	return config.CommissionTier{}, false
}

// PaidToday sums the commission already credited to a referrer during the
// current calendar day.
func PaidToday(db *gorm.DB, referrerUserID uint, now time.Time) (float64, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var total float64
	err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_type IN ? AND status = ? AND created_at >= ?",
			referrerUserID,
			[]string{models.TxTypeReferralCommission, models.TxTypeReferralBonus},
			models.TxStatusCompleted, start).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

// Distribute walks up the referral chain from the triggering user, at most
// e.levels ancestors deep, and pays each qualifying ancestor. An ancestor
// below every tier minimum, over their daily cap, or owed less than the
// minimum payable unit is skipped without halting the walk, so an ancestor
// further up can still earn. Each payment is its own atomic step; a failure
// mid-chain truncates the walk but never rolls back earlier payments.
func (e *Engine) Distribute(db *gorm.DB, userID uint, sourceAmount float64, eventType, sourceOrderID string) (float64, error) {
	total := 0.0
	currentUserID := userID

	for level := 1; level <= e.levels; level++ {
		var edge models.Referral
		err := db.Where("referred_user_id = ? AND status = ?", currentUserID, models.ReferralStatusActive).
			First(&edge).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return total, nil
			}
			return total, err
		}

		var referrer models.User
		if err := db.First(&referrer, edge.ReferrerUserID).Error; err != nil {
			// Missing referrer truncates the chain; earlier payments stay.
			log.Printf("[commission] referrer %d missing at level %d: %v", edge.ReferrerUserID, level, err)
			return total, nil
		}

		activeCount, err := CountActive(db, referrer.ID)
		if err != nil {
			return total, err
		}

		tier, ok := e.TierFor(activeCount)
		if !ok {
			currentUserID = edge.ReferrerUserID
			continue
		}

		commission := utils.Round2(sourceAmount * tier.Rate)
		if commission < minPayable {
			currentUserID = edge.ReferrerUserID
			continue
		}

		paidToday, err := PaidToday(db, referrer.ID, time.Now())
		if err != nil {
			return total, err
		}
		if paidToday+commission > tier.DailyCap {
			currentUserID = edge.ReferrerUserID
			continue
		}

		if err := e.pay(db, &edge, &referrer, level, tier, commission, sourceAmount, eventType, sourceOrderID); err != nil {
			log.Printf("[commission] payment to %d at level %d failed: %v", referrer.ID, level, err)
			return total, nil
		}

		total = utils.Round2(total + commission)
		currentUserID = edge.ReferrerUserID
	}

	return total, nil
}

// pay settles one ancestor: balance credit, paired transaction, lifetime
// counters, edge accrual and history in one atomic unit.
func (e *Engine) pay(db *gorm.DB, edge *models.Referral, referrer *models.User, level int,
	tier config.CommissionTier, commission, sourceAmount float64, eventType, sourceOrderID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		msg := fmt.Sprintf("Level %d referral commission (%s)", level, eventType)
		entry := ledger.Entry{
			Type:          models.TxTypeReferralCommission,
			Message:       &msg,
			ReferralID:    &edge.ID,
			SourceOrderID: &sourceOrderID,
		}
		if _, err := ledger.Credit(tx, referrer.ID, commission, entry); err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", referrer.ID).Updates(map[string]interface{}{
			"total_commission":  gorm.Expr("ROUND(total_commission + ?, 2)", commission),
			"referral_earnings": gorm.Expr("ROUND(referral_earnings + ?, 2)", commission),
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Referral{}).Where("id = ?", edge.ID).
			UpdateColumn("total_earned", gorm.Expr("ROUND(total_earned + ?, 2)", commission)).Error; err != nil {
			return err
		}

		history := models.ReferralCommission{
			ReferralID:     edge.ID,
			ReferrerUserID: referrer.ID,
			Level:          level,
			Rate:           tier.Rate,
			SourceAmount:   utils.Round2(sourceAmount),
			Amount:         commission,
			EventType:      eventType,
			SourceOrderID:  sourceOrderID,
		}
		return tx.Create(&history).Error
	})
}
