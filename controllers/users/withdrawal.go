package users

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/nur922184/server-workbd/config"
	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/ledger"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	"github.com/nur922184/server-workbd/workflow"
)

type paymentMethodRequest struct {
	Method      string `json:"method"`
	PhoneNumber string `json:"phone_number"`
}

// POST /v3/users/payment-methods
func AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req paymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Method = strings.TrimSpace(req.Method)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.Method == "" || req.PhoneNumber == "" {
		utils.WriteFailure(w, http.StatusBadRequest, "Method and phone number are required")
		return
	}

	pm := models.PaymentMethod{
		UserID:      uid,
		Method:      req.Method,
		PhoneNumber: req.PhoneNumber,
		Status:      "active",
	}
	if err := database.DB.Create(&pm).Error; err != nil {
		log.Printf("[withdrawal] create payment method for user %d failed: %v", uid, err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Payment method added",
		Data:    pm,
	})
}

// GET /v3/users/payment-methods
func ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var methods []models.PaymentMethod
	if err := database.DB.Where("user_id = ?", uid).Order("id DESC").Find(&methods).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    methods,
	})
}

type withdrawalRequest struct {
	Amount          float64 `json:"amount"`
	PaymentMethodID uint    `json:"payment_method_id"`
}

// POST /v3/users/withdrawal
func SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wd, err := workflow.SubmitWithdrawal(database.DB, config.Get(), uid, req.PaymentMethodID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			utils.WriteFailure(w, http.StatusBadRequest, "Amount must be positive")
		case errors.Is(err, workflow.ErrBelowMinimum):
			utils.WriteFailure(w, http.StatusBadRequest, "Amount is below the minimum withdrawal")
		case errors.Is(err, workflow.ErrPaymentMethodNotFound):
			utils.WriteFailure(w, http.StatusBadRequest, "Payment method not found")
		case errors.Is(err, ledger.ErrInsufficientBalance):
			utils.WriteFailure(w, http.StatusBadRequest, "Insufficient balance")
		default:
			log.Printf("[withdrawal] submit for user %d failed: %v", uid, err)
			utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal submitted, awaiting approval",
		Data:    wd,
	})
}

// GET /v3/users/withdrawal
func ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var withdrawals []models.Withdrawal
	if err := database.DB.Preload("PaymentMethod").
		Where("user_id = ?", uid).Order("id DESC").Limit(50).
		Find(&withdrawals).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    withdrawals,
	})
}
