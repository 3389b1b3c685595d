package admins

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	"github.com/nur922184/server-workbd/workflow"
)

// GET /v3/admins/withdrawals?status=&page=&limit=
func ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}

	query := database.DB.Model(&models.Withdrawal{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	var withdrawals []models.Withdrawal
	if err := query.Preload("PaymentMethod").
		Order("id DESC").Limit(limit).Offset((page - 1) * limit).
		Find(&withdrawals).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": withdrawals,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

// PUT /v3/admins/withdrawals/{id}/status
func SetWithdrawalStatus(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetAdminID(r)
	if !ok || adminID == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid withdrawal id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wd, err := workflow.SetWithdrawalStatus(database.DB, uint(id), req.Status, adminID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			utils.WriteFailure(w, http.StatusNotFound, "Withdrawal not found")
		case errors.Is(err, workflow.ErrInvalidStatus):
			utils.WriteFailure(w, http.StatusBadRequest, "Invalid status transition")
		default:
			log.Printf("[admin-withdrawals] set status %d failed: %v", id, err)
			utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawal " + strings.ToLower(wd.Status),
		Data:    wd,
	})
}
