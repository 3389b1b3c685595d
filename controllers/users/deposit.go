package users

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/ledger"
	"github.com/nur922184/server-workbd/utils"
	"github.com/nur922184/server-workbd/workflow"
)

type depositRequest struct {
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transaction_id"`
}

// POST /v3/users/deposit
func SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Method = strings.TrimSpace(req.Method)
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	if req.Method == "" {
		utils.WriteFailure(w, http.StatusBadRequest, "Payment method is required")
		return
	}
	if req.TransactionID == "" {
		utils.WriteFailure(w, http.StatusBadRequest, "Transaction id is required")
		return
	}

	trx, err := workflow.SubmitDeposit(database.DB, uid, req.Amount, req.Method, req.TransactionID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			utils.WriteFailure(w, http.StatusBadRequest, "Amount must be positive")
		case errors.Is(err, workflow.ErrDuplicateTransactionID):
			utils.WriteFailure(w, http.StatusConflict, "This transaction id was already submitted")
		default:
			log.Printf("[deposit] submit for user %d failed: %v", uid, err)
			utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Deposit submitted, awaiting approval",
		Data:    trx,
	})
}
