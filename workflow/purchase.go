package workflow

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nur922184/server-workbd/ledger"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/referral"
	"github.com/nur922184/server-workbd/utils"
	"gorm.io/gorm"
)

// PurchaseProduct buys a product for the user. The holding snapshots the
// product's terms at purchase time; later catalog edits never change what an
// existing holding pays. The debit, the holding, and the referral-edge
// activation commit together; ancestor commission settles after that commit.
func PurchaseProduct(db *gorm.DB, engine *referral.Engine, userID, productID uint) (*models.UserProduct, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if product.Status != "active" {
		return nil, ErrProductUnavailable
	}

	var n int64
	if err := db.Model(&models.UserProduct{}).
		Where("user_id = ? AND product_id = ? AND status = ?", userID, productID, models.HoldingStatusActive).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAlreadyPurchased
	}

	orderID := utils.GenerateOrderID(userID)
	holding := models.UserProduct{
		UserID:        userID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		Price:         product.Price,
		DailyIncome:   product.DailyIncome,
		TotalDays:     product.TotalDays,
		ReturnRate:    product.ReturnRate,
		Status:        models.HoldingStatusActive,
		RemainingDays: product.TotalDays,
		OrderID:       orderID,
		PurchaseDate:  time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&holding).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("Purchase of %s", product.Name)
		entry := ledger.Entry{
			Type:          models.TxTypePurchase,
			OrderID:       orderID,
			Message:       &msg,
			UserProductID: &holding.ID,
		}
		if _, err := ledger.Debit(tx, userID, product.Price, entry); err != nil {
			return err
		}
		return referral.ActivateEdge(tx, userID, referral.ActivationPurchase, orderID)
	})
	if err != nil {
		return nil, err
	}

	if engine != nil {
		if _, err := engine.Distribute(db, userID, product.Price, referral.EventPurchase, orderID); err != nil {
			log.Printf("[workflow] commission distribution for %s failed: %v", orderID, err)
		}
	}
	return &holding, nil
}
