// Package referral holds the referral graph and the multi-level commission
// settlement engine built on top of it.
package referral

import (
	"errors"
	"strings"

	"github.com/nur922184/server-workbd/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrSelfReferral        = errors.New("self referral is not allowed")
	ErrAlreadyReferred     = errors.New("user is already referred")
)

// Activation kinds for an edge's first qualifying event.
const (
	ActivationDeposit  = "deposit"
	ActivationPurchase = "purchase"
)

// RegisterEdge creates the pending edge referrer -> referred and bumps the
// referrer's referral counter. The unique index on referred_user_id is the
// real guard against two racing registrations; the pre-check only improves
// the error message.
func RegisterEdge(db *gorm.DB, referredUserID uint, referrerCode, referredEmail string) (*models.Referral, error) {
	var referrer models.User
	if err := db.Where("reff_code = ?", referrerCode).First(&referrer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidReferralCode
		}
		return nil, err
	}
	if referrer.ID == referredUserID {
		return nil, ErrSelfReferral
	}

	var existing models.Referral
	if err := db.Where("referred_user_id = ?", referredUserID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyReferred
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	edge := models.Referral{
		ReferrerUserID: referrer.ID,
		ReferrerEmail:  referrer.Email,
		ReferredUserID: referredUserID,
		ReferredEmail:  referredEmail,
		Status:         models.ReferralStatusPending,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&edge).Error; err != nil {
			if isDuplicateErr(err) {
				return ErrAlreadyReferred
			}
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", referrer.ID).
			UpdateColumn("total_referrals", gorm.Expr("total_referrals + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// ActivateEdge flips the referred user's pending edge to active on their
// first qualifying monetary event. Idempotent: no pending edge is a no-op
// success, because transaction approval and product purchase may race to
// activate the same edge.
func ActivateEdge(tx *gorm.DB, referredUserID uint, kind, orderID string) error {
	updates := map[string]interface{}{
		"status":              models.ReferralStatusActive,
		"activation_order_id": orderID,
	}
	switch kind {
	case ActivationPurchase:
		updates["has_purchased"] = true
	default:
		updates["has_deposited"] = true
	}
	return tx.Model(&models.Referral{}).
		Where("referred_user_id = ? AND status = ?", referredUserID, models.ReferralStatusPending).
		Updates(updates).Error
}

// CountActive returns how many of the referrer's direct referrals have made
// their first deposit or purchase. This is the commission eligibility basis.
func CountActive(db *gorm.DB, referrerUserID uint) (int64, error) {
	var n int64
	err := db.Model(&models.Referral{}).
		Where("referrer_user_id = ? AND status = ?", referrerUserID, models.ReferralStatusActive).
		Count(&n).Error
	return n, err
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
