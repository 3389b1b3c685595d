package users

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/ledger"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/referral"
	"github.com/nur922184/server-workbd/utils"
	"github.com/nur922184/server-workbd/workflow"
)

// GET /v3/users/products
func ListProducts(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := database.DB.Where("status = ?", "active").Order("price ASC").Find(&products).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    products,
	})
}

type purchaseRequest struct {
	ProductID uint `json:"product_id"`
}

// POST /v3/users/purchase
func PurchaseProduct(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 {
		utils.WriteFailure(w, http.StatusBadRequest, "Product id is required")
		return
	}

	holding, err := workflow.PurchaseProduct(database.DB, referral.Default(), uid, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			utils.WriteFailure(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, workflow.ErrProductUnavailable):
			utils.WriteFailure(w, http.StatusBadRequest, "Product is not available")
		case errors.Is(err, workflow.ErrAlreadyPurchased):
			utils.WriteFailure(w, http.StatusConflict, "Product already purchased")
		case errors.Is(err, ledger.ErrInsufficientBalance):
			utils.WriteFailure(w, http.StatusBadRequest, "Insufficient balance")
		default:
			log.Printf("[purchase] user %d product %d failed: %v", uid, req.ProductID, err)
			utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Purchase successful",
		Data:    holding,
	})
}

// GET /v3/users/holdings
func ListHoldings(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var holdings []models.UserProduct
	if err := database.DB.Where("user_id = ?", uid).Order("id DESC").Find(&holdings).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    holdings,
	})
}
