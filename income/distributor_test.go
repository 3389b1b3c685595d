package income

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nur922184/server-workbd/config"
	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestDistributor(db *gorm.DB) *Distributor {
	return NewDistributor(db, &config.Config{
		IncomeInterval: 24 * time.Hour,
		IncomeLeaseTTL: time.Minute,
	}, nil)
}

func seedHolding(t *testing.T, db *gorm.DB, userID uint, dailyIncome float64, remainingDays int, purchasedAgo time.Duration) *models.UserProduct {
	t.Helper()
	h := models.UserProduct{
		UserID:        userID,
		ProductID:     1,
		ProductName:   "Starter Plan",
		Price:         100,
		DailyIncome:   dailyIncome,
		TotalDays:     30,
		ReturnRate:    1.5,
		Status:        models.HoldingStatusActive,
		RemainingDays: remainingDays,
		OrderID:       utils.GenerateOrderID(userID),
		PurchaseDate:  time.Now().Add(-purchasedAgo),
	}
	require.NoError(t, db.Create(&h).Error)
	return &h
}

func seedUser(t *testing.T, db *gorm.DB, email, code string) *models.User {
	t.Helper()
	user := models.User{Name: email, Email: email, Password: "x", ReffCode: code}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestRunPaysEligibleHolding(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1")
	holding := seedHolding(t, db, user.ID, 5.5, 10, 25*time.Hour)

	res, err := newTestDistributor(db).Run(context.Background())
	require.NoError(t, err)
	require.False(t, res.SkippedRun)
	require.Equal(t, 1, res.Processed)
	require.InDelta(t, 5.5, res.TotalDistributed, 0.001)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.InDelta(t, 5.5, fresh.Balance, 0.001)

	var h models.UserProduct
	require.NoError(t, db.First(&h, holding.ID).Error)
	require.Equal(t, 9, h.RemainingDays)
	require.InDelta(t, 5.5, h.TotalEarned, 0.001)
	require.NotNil(t, h.LastPaymentDate)

	var trx models.Transaction
	require.NoError(t, db.Where("user_product_id = ? AND transaction_type = ?",
		holding.ID, models.TxTypeDailyIncome).First(&trx).Error)
	require.Equal(t, models.TxStatusCompleted, trx.Status)
}

func TestRunSkipsRecentHolding(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1")
	seedHolding(t, db, user.ID, 5, 10, time.Hour)

	res, err := newTestDistributor(db).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, res.Processed)
	require.Equal(t, 1, res.Skipped)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.InDelta(t, 0, fresh.Balance, 0.001)
}

func TestRunDoesNotDoublePaySameDay(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1")
	holding := seedHolding(t, db, user.ID, 5, 10, 25*time.Hour)

	d := newTestDistributor(db)
	res, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)

	// Rewind last_payment_date so the elapsed-time guard passes; the
	// same-day transaction check must still block a second payout.
	rewound := time.Now().Add(-25 * time.Hour)
	require.NoError(t, db.Model(&models.UserProduct{}).Where("id = ?", holding.ID).
		UpdateColumn("last_payment_date", rewound).Error)

	res, err = d.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, res.Processed)
	require.Equal(t, 1, res.Skipped)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.InDelta(t, 5, fresh.Balance, 0.001)
}

func TestRunCompletesHoldingOnLastDay(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1")
	holding := seedHolding(t, db, user.ID, 5, 1, 25*time.Hour)

	res, err := newTestDistributor(db).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)

	var h models.UserProduct
	require.NoError(t, db.First(&h, holding.ID).Error)
	require.Equal(t, 0, h.RemainingDays)
	require.Equal(t, models.HoldingStatusCompleted, h.Status)

	// A completed holding is never picked up again.
	res, err = newTestDistributor(db).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, res.Processed)
	require.Equal(t, 0, res.Skipped)
}

func TestRunIsolatesFailingHolding(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1")
	seedHolding(t, db, user.ID, 5, 10, 25*time.Hour)

	// Holding owned by a nonexistent user fails; the batch must continue.
	broken := seedHolding(t, db, 9999, 7, 10, 25*time.Hour)

	res, err := newTestDistributor(db).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)
	require.Equal(t, 1, res.Skipped)
	require.InDelta(t, 5, res.TotalDistributed, 0.001)

	var errTrx models.Transaction
	require.NoError(t, db.Where("user_product_id = ? AND transaction_type = ?",
		broken.ID, models.TxTypeSystemError).First(&errTrx).Error)
	require.Equal(t, models.TxStatusFailed, errTrx.Status)
}

func TestConcurrentRunsPayAtMostOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1")
	seedHolding(t, db, user.ID, 5, 10, 25*time.Hour)

	d := newTestDistributor(db)
	var wg sync.WaitGroup
	results := make([]Result, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := d.Run(context.Background())
			require.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	processed := 0
	for _, res := range results {
		processed += res.Processed
	}
	require.Equal(t, 1, processed)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.InDelta(t, 5, fresh.Balance, 0.001)
}
