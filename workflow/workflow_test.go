package workflow

import (
	"fmt"
	"testing"

	"github.com/nur922184/server-workbd/config"
	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/referral"
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

func testEngine() *referral.Engine {
	return referral.NewEngine(&config.Config{
		CommissionLevels: 3,
		CommissionTiers:  config.DefaultTiers(),
	})
}

func testConfig() *config.Config {
	return &config.Config{
		WithdrawChargePercent: 5,
		MinWithdraw:           200,
	}
}

func seedUser(t *testing.T, db *gorm.DB, email, code string, balance float64) *models.User {
	t.Helper()
	user := models.User{Name: email, Email: email, Password: "x", ReffCode: code, Balance: balance}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint) float64 {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.Balance
}

// seedActiveReferrals gives the referrer n activated downstream edges.
func seedActiveReferrals(t *testing.T, db *gorm.DB, referrerCode, prefix string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		email := fmt.Sprintf("%s%d@example.com", prefix, i)
		u := seedUser(t, db, email, fmt.Sprintf("%s%d", prefix, i), 0)
		_, err := referral.RegisterEdge(db, u.ID, referrerCode, u.Email)
		require.NoError(t, err)
		require.NoError(t, referral.ActivateEdge(db, u.ID, referral.ActivationDeposit, fmt.Sprintf("SEED-%s-%d", prefix, i)))
	}
}

func TestSubmitDepositRejectsDuplicateTransactionID(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1", 0)

	trx, err := SubmitDeposit(db, user.ID, 100, "bkash", "EXT-1")
	require.NoError(t, err)
	require.Equal(t, models.TxStatusPending, trx.Status)
	require.InDelta(t, 0, balanceOf(t, db, user.ID), 0.001)

	_, err = SubmitDeposit(db, user.ID, 100, "bkash", "EXT-1")
	require.ErrorIs(t, err, ErrDuplicateTransactionID)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestApproveDepositCreditsAndActivatesEdge(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ref@example.com", "REF1", 0)
	user := seedUser(t, db, "u@example.com", "U1", 0)
	_, err := referral.RegisterEdge(db, user.ID, "REF1", user.Email)
	require.NoError(t, err)

	trx, err := SubmitDeposit(db, user.ID, 150, "nagad", "EXT-1")
	require.NoError(t, err)

	approved, err := SetTransactionStatus(db, nil, trx.ID, models.TxStatusApproved, 1)
	require.NoError(t, err)
	require.Equal(t, models.TxStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	require.EqualValues(t, 1, *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	require.InDelta(t, 150, balanceOf(t, db, user.ID), 0.001)

	var edge models.Referral
	require.NoError(t, db.Where("referred_user_id = ?", user.ID).First(&edge).Error)
	require.Equal(t, models.ReferralStatusActive, edge.Status)
	require.True(t, edge.HasDeposited)
	require.NotNil(t, edge.ActivationOrderID)
	require.Equal(t, trx.OrderID, *edge.ActivationOrderID)
}

func TestApproveDepositDistributesCommission(t *testing.T) {
	db := newTestDB(t)
	referrer := seedUser(t, db, "ref@example.com", "REF1", 0)
	user := seedUser(t, db, "u@example.com", "U1", 0)
	_, err := referral.RegisterEdge(db, user.ID, "REF1", user.Email)
	require.NoError(t, err)
	seedActiveReferrals(t, db, "REF1", "fill", 4)

	trx, err := SubmitDeposit(db, user.ID, 100, "bkash", "EXT-1")
	require.NoError(t, err)

	// the approval itself activates the depositor's edge, making the
	// referrer's fifth active referral before commission is evaluated
	_, err = SetTransactionStatus(db, testEngine(), trx.ID, models.TxStatusApproved, 1)
	require.NoError(t, err)

	require.InDelta(t, 3.00, balanceOf(t, db, referrer.ID), 0.001)

	var comm models.Transaction
	require.NoError(t, db.Where("user_id = ? AND transaction_type = ?",
		referrer.ID, models.TxTypeReferralCommission).First(&comm).Error)
	require.NotNil(t, comm.SourceOrderID)
	require.Equal(t, trx.OrderID, *comm.SourceOrderID)
}

func TestRejectDepositLeavesBalanceUntouched(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1", 0)

	trx, err := SubmitDeposit(db, user.ID, 100, "bkash", "EXT-1")
	require.NoError(t, err)

	rejected, err := SetTransactionStatus(db, nil, trx.ID, models.TxStatusRejected, 1)
	require.NoError(t, err)
	require.Equal(t, models.TxStatusRejected, rejected.Status)
	require.InDelta(t, 0, balanceOf(t, db, user.ID), 0.001)

	// a settled deposit cannot be settled again
	_, err = SetTransactionStatus(db, nil, trx.ID, models.TxStatusApproved, 1)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetTransactionStatusValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1", 0)

	trx, err := SubmitDeposit(db, user.ID, 100, "bkash", "EXT-1")
	require.NoError(t, err)

	_, err = SetTransactionStatus(db, nil, trx.ID, "Whatever", 1)
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = SetTransactionStatus(db, nil, 9999, models.TxStatusApproved, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitWithdrawalHoldsAmountPlusCharge(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1", 1000)
	pm := models.PaymentMethod{UserID: user.ID, Method: "bkash", PhoneNumber: "0170000000", Status: "active"}
	require.NoError(t, db.Create(&pm).Error)

	wd, err := SubmitWithdrawal(db, testConfig(), user.ID, pm.ID, 500)
	require.NoError(t, err)
	require.Equal(t, models.TxStatusPending, wd.Status)
	require.InDelta(t, 25, wd.Charge, 0.001)

	// 500 + 5% charge held at submission
	require.InDelta(t, 475, balanceOf(t, db, user.ID), 0.001)

	var trx models.Transaction
	require.NoError(t, db.Where("order_id = ?", wd.OrderID).First(&trx).Error)
	require.Equal(t, models.TxTypeWithdrawal, trx.TransactionType)
	require.Equal(t, models.TxStatusPending, trx.Status)
	require.InDelta(t, 25, trx.Charge, 0.001)
}

func TestSubmitWithdrawalValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1", 1000)
	pm := models.PaymentMethod{UserID: user.ID, Method: "bkash", PhoneNumber: "0170000000", Status: "active"}
	require.NoError(t, db.Create(&pm).Error)

	_, err := SubmitWithdrawal(db, testConfig(), user.ID, pm.ID, 100)
	require.ErrorIs(t, err, ErrBelowMinimum)

	_, err = SubmitWithdrawal(db, testConfig(), user.ID, 9999, 500)
	require.ErrorIs(t, err, ErrPaymentMethodNotFound)

	// 1000 < 2000 + charge
	_, err = SubmitWithdrawal(db, testConfig(), user.ID, pm.ID, 2000)
	require.Error(t, err)
	require.InDelta(t, 1000, balanceOf(t, db, user.ID), 0.001)

	var count int64
	require.NoError(t, db.Model(&models.Withdrawal{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestApproveWithdrawalIsLedgerNoop(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1", 1000)
	pm := models.PaymentMethod{UserID: user.ID, Method: "bkash", PhoneNumber: "0170000000", Status: "active"}
	require.NoError(t, db.Create(&pm).Error)

	wd, err := SubmitWithdrawal(db, testConfig(), user.ID, pm.ID, 500)
	require.NoError(t, err)

	approved, err := SetWithdrawalStatus(db, wd.ID, models.TxStatusApproved, 1)
	require.NoError(t, err)
	require.Equal(t, models.TxStatusApproved, approved.Status)
	require.InDelta(t, 475, balanceOf(t, db, user.ID), 0.001)

	var trx models.Transaction
	require.NoError(t, db.Where("order_id = ?", wd.OrderID).First(&trx).Error)
	require.Equal(t, models.TxStatusApproved, trx.Status)
}

func TestRejectWithdrawalRefundsHold(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1", 1000)
	pm := models.PaymentMethod{UserID: user.ID, Method: "bkash", PhoneNumber: "0170000000", Status: "active"}
	require.NoError(t, db.Create(&pm).Error)

	wd, err := SubmitWithdrawal(db, testConfig(), user.ID, pm.ID, 500)
	require.NoError(t, err)

	_, err = SetWithdrawalStatus(db, wd.ID, models.TxStatusRejected, 1)
	require.NoError(t, err)
	require.InDelta(t, 1000, balanceOf(t, db, user.ID), 0.001)

	// rejection is terminal
	_, err = SetWithdrawalStatus(db, wd.ID, models.TxStatusApproved, 1)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPurchaseSnapshotsProductTerms(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ref@example.com", "REF1", 0)
	user := seedUser(t, db, "u@example.com", "U1", 500)
	_, err := referral.RegisterEdge(db, user.ID, "REF1", user.Email)
	require.NoError(t, err)

	product := models.Product{Name: "Starter", Price: 300, DailyIncome: 10, TotalDays: 45, ReturnRate: 1.5, Status: "active"}
	require.NoError(t, db.Create(&product).Error)

	holding, err := PurchaseProduct(db, nil, user.ID, product.ID)
	require.NoError(t, err)
	require.InDelta(t, 200, balanceOf(t, db, user.ID), 0.001)
	require.Equal(t, 45, holding.RemainingDays)

	// later catalog edits must not touch the holding
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"price": 999, "daily_income": 1}).Error)

	var fresh models.UserProduct
	require.NoError(t, db.First(&fresh, holding.ID).Error)
	require.InDelta(t, 300, fresh.Price, 0.001)
	require.InDelta(t, 10, fresh.DailyIncome, 0.001)

	var edge models.Referral
	require.NoError(t, db.Where("referred_user_id = ?", user.ID).First(&edge).Error)
	require.Equal(t, models.ReferralStatusActive, edge.Status)
	require.True(t, edge.HasPurchased)
}

func TestPurchaseValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1", 100)

	product := models.Product{Name: "Starter", Price: 300, DailyIncome: 10, TotalDays: 45, ReturnRate: 1.5, Status: "active"}
	require.NoError(t, db.Create(&product).Error)
	retired := models.Product{Name: "Old", Price: 50, DailyIncome: 1, TotalDays: 10, ReturnRate: 1.1, Status: "inactive"}
	require.NoError(t, db.Create(&retired).Error)

	_, err := PurchaseProduct(db, nil, user.ID, 9999)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = PurchaseProduct(db, nil, user.ID, retired.ID)
	require.ErrorIs(t, err, ErrProductUnavailable)

	_, err = PurchaseProduct(db, nil, user.ID, product.ID)
	require.Error(t, err)
	require.InDelta(t, 100, balanceOf(t, db, user.ID), 0.001)

	var count int64
	require.NoError(t, db.Model(&models.UserProduct{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestReverseDepositClawsBackCommission(t *testing.T) {
	db := newTestDB(t)
	referrer := seedUser(t, db, "ref@example.com", "REF1", 0)
	user := seedUser(t, db, "u@example.com", "U1", 0)
	_, err := referral.RegisterEdge(db, user.ID, "REF1", user.Email)
	require.NoError(t, err)
	seedActiveReferrals(t, db, "REF1", "fill", 4)

	trx, err := SubmitDeposit(db, user.ID, 100, "bkash", "EXT-1")
	require.NoError(t, err)
	_, err = SetTransactionStatus(db, testEngine(), trx.ID, models.TxStatusApproved, 1)
	require.NoError(t, err)

	// user spends part of the deposit before the reversal
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("balance", gorm.Expr("balance - ?", 80)).Error)

	reversed, err := ReverseTransaction(db, trx.ID, 2)
	require.NoError(t, err)
	require.Equal(t, models.TxStatusFailed, reversed.Status)

	// 20 remaining minus the 100 clawback goes negative
	require.InDelta(t, -80, balanceOf(t, db, user.ID), 0.001)
	require.InDelta(t, 0, balanceOf(t, db, referrer.ID), 0.001)

	var freshReferrer models.User
	require.NoError(t, db.First(&freshReferrer, referrer.ID).Error)
	require.InDelta(t, 0, freshReferrer.TotalCommission, 0.001)
	require.InDelta(t, 0, freshReferrer.ReferralEarnings, 0.001)

	// original commission marked failed, compensating debit recorded
	var failed models.Transaction
	require.NoError(t, db.Where("user_id = ? AND transaction_type = ? AND status = ?",
		referrer.ID, models.TxTypeReferralCommission, models.TxStatusFailed).First(&failed).Error)
	var comp models.Transaction
	require.NoError(t, db.Where("user_id = ? AND transaction_type = ? AND transaction_flow = ?",
		referrer.ID, models.TxTypeReferralCommission, models.TxFlowDebit).First(&comp).Error)

	var histCount int64
	require.NoError(t, db.Model(&models.ReferralCommission{}).
		Where("source_order_id = ?", trx.OrderID).Count(&histCount).Error)
	require.EqualValues(t, 0, histCount)

	// the deposit was the activation event, so the edge is pending again
	var edge models.Referral
	require.NoError(t, db.Where("referred_user_id = ?", user.ID).First(&edge).Error)
	require.Equal(t, models.ReferralStatusPending, edge.Status)
	require.False(t, edge.HasDeposited)
	require.Nil(t, edge.ActivationOrderID)
	require.InDelta(t, 0, edge.TotalEarned, 0.001)
}

func TestReverseOnlyApprovedDeposits(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "u@example.com", "U1", 0)

	trx, err := SubmitDeposit(db, user.ID, 100, "bkash", "EXT-1")
	require.NoError(t, err)

	_, err = ReverseTransaction(db, trx.ID, 1)
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ReverseTransaction(db, 9999, 1)
	require.ErrorIs(t, err, ErrNotFound)
}
