package admins

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	"gorm.io/gorm"
)

type productRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	DailyIncome float64 `json:"daily_income"`
	TotalDays   int     `json:"total_days"`
	ReturnRate  float64 `json:"return_rate"`
	Status      string  `json:"status"`
}

func (p *productRequest) validate() string {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "Name is required"
	}
	if p.Price <= 0 {
		return "Price must be positive"
	}
	if p.DailyIncome <= 0 {
		return "Daily income must be positive"
	}
	if p.TotalDays <= 0 {
		return "Total days must be positive"
	}
	return ""
}

// GET /v3/admins/products
func ListProducts(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := database.DB.Order("id DESC").Find(&products).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    products,
	})
}

// POST /v3/admins/products
func CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteFailure(w, http.StatusBadRequest, msg)
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}

	product := models.Product{
		Name:        req.Name,
		Price:       req.Price,
		DailyIncome: req.DailyIncome,
		TotalDays:   req.TotalDays,
		ReturnRate:  req.ReturnRate,
		Status:      req.Status,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		log.Printf("[admin-products] create failed: %v", err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Product created",
		Data:    product,
	})
}

// PUT /v3/admins/products/{id}
func UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteFailure(w, http.StatusBadRequest, msg)
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteFailure(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Catalog edits only affect future purchases; existing holdings keep
	// their snapshot.
	updates := map[string]interface{}{
		"name":         req.Name,
		"price":        req.Price,
		"daily_income": req.DailyIncome,
		"total_days":   req.TotalDays,
		"return_rate":  req.ReturnRate,
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if err := database.DB.Model(&product).Updates(updates).Error; err != nil {
		log.Printf("[admin-products] update %d failed: %v", id, err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Product updated",
		Data:    product,
	})
}
