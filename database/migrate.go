package database

import (
	"github.com/nur922184/server-workbd/models"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Product{},
		&models.UserProduct{},
		&models.Transaction{},
		&models.Referral{},
		&models.ReferralCommission{},
		&models.Withdrawal{},
		&models.PaymentMethod{},
	)
}
