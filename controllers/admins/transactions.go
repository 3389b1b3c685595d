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
	"github.com/nur922184/server-workbd/referral"
	"github.com/nur922184/server-workbd/utils"
	"github.com/nur922184/server-workbd/workflow"
)

// GET /v3/admins/transactions?status=&type=&page=&limit=
func ListTransactions(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	txType := strings.TrimSpace(r.URL.Query().Get("type"))

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}

	db := database.DB
	query := db.Model(&models.Transaction{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if txType != "" {
		query = query.Where("transaction_type = ?", txType)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	var transactions []models.Transaction
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).
		Find(&transactions).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": transactions,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

// PUT /v3/admins/transactions/{id}/status
func SetTransactionStatus(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetAdminID(r)
	if !ok || adminID == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trx, err := workflow.SetTransactionStatus(database.DB, referral.Default(), uint(id), req.Status, adminID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			utils.WriteFailure(w, http.StatusNotFound, "Transaction not found")
		case errors.Is(err, workflow.ErrInvalidStatus):
			utils.WriteFailure(w, http.StatusBadRequest, "Invalid status transition")
		default:
			log.Printf("[admin-transactions] set status %d failed: %v", id, err)
			utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Transaction " + strings.ToLower(trx.Status),
		Data:    trx,
	})
}

// POST /v3/admins/transactions/{id}/reverse
func ReverseTransaction(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetAdminID(r)
	if !ok || adminID == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	trx, err := workflow.ReverseTransaction(database.DB, uint(id), adminID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			utils.WriteFailure(w, http.StatusNotFound, "Transaction not found")
		case errors.Is(err, workflow.ErrInvalidStatus):
			utils.WriteFailure(w, http.StatusBadRequest, "Only approved deposits can be reversed")
		default:
			log.Printf("[admin-transactions] reverse %d failed: %v", id, err)
			utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Transaction reversed",
		Data:    trx,
	})
}
