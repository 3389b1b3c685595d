package users

import (
	"log"
	"net/http"

	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
)

// GET /v3/users/info
func GetInfo(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	db := database.DB

	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		log.Printf("[info] DB error fetching user %d: %v", uid, err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	var totalWithdraw float64
	db.Model(&models.Withdrawal{}).
		Where("user_id = ? AND status = ?", uid, models.TxStatusApproved).
		Select("COALESCE(SUM(amount),0)").Scan(&totalWithdraw)

	var activeHoldings int64
	db.Model(&models.UserProduct{}).
		Where("user_id = ? AND status = ?", uid, models.HoldingStatusActive).
		Count(&activeHoldings)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"id":                user.ID,
			"name":              user.Name,
			"email":             user.Email,
			"reff_code":         user.ReffCode,
			"balance":           user.Balance,
			"total_referrals":   user.TotalReferrals,
			"total_commission":  user.TotalCommission,
			"referral_earnings": user.ReferralEarnings,
			"total_withdraw":    totalWithdraw,
			"active_holdings":   activeHoldings,
		},
	})
}
