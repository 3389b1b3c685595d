package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.WriteFailure(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteFailure(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("[login] DB error: %v", err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		return
	}
	if user.Status != "Active" {
		utils.WriteFailure(w, http.StatusForbidden, "Account is disabled")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.WriteFailure(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateAccessToken(user.ID, "user", 24*time.Hour)
	if err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Could not create token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"access_token": token,
			"user": map[string]interface{}{
				"id":        user.ID,
				"name":      user.Name,
				"email":     user.Email,
				"reff_code": user.ReffCode,
				"balance":   user.Balance,
			},
		},
	})
}
