package users

import (
	"log"
	"net/http"
	"time"

	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/referral"
	"github.com/nur922184/server-workbd/utils"
)

// GET /v3/users/team
func GetTeam(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	db := database.DB

	var edges []models.Referral
	if err := db.Where("referrer_user_id = ?", uid).Order("id DESC").Find(&edges).Error; err != nil {
		log.Printf("[team] DB error for user %d: %v", uid, err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	activeCount, err := referral.CountActive(db, uid)
	if err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	tierName := "none"
	var tierRate, tierCap float64
	if tier, ok := referral.Default().TierFor(activeCount); ok {
		tierName = tier.Name
		tierRate = tier.Rate
		tierCap = tier.DailyCap
	}

	paidToday, err := referral.PaidToday(db, uid, time.Now())
	if err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	type memberDTO struct {
		Email       string  `json:"email"`
		Status      string  `json:"status"`
		TotalEarned float64 `json:"total_earned"`
		JoinedAt    string  `json:"joined_at"`
	}
	members := make([]memberDTO, 0, len(edges))
	for _, e := range edges {
		members = append(members, memberDTO{
			Email:       e.ReferredEmail,
			Status:      e.Status,
			TotalEarned: e.TotalEarned,
			JoinedAt:    e.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"total_referrals":  len(edges),
			"active_referrals": activeCount,
			"tier":             tierName,
			"tier_rate":        tierRate,
			"daily_cap":        tierCap,
			"paid_today":       paidToday,
			"members":          members,
		},
	})
}

// GET /v3/users/commissions
func GetCommissionHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var history []models.ReferralCommission
	if err := database.DB.Where("referrer_user_id = ?", uid).
		Order("id DESC").Limit(100).Find(&history).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    history,
	})
}
