package admins

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

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /v3/admins/login
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		utils.WriteFailure(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var admin models.Admin
	if err := database.DB.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteFailure(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("[admin-login] DB error: %v", err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		return
	}
	if !admin.IsActive {
		utils.WriteFailure(w, http.StatusForbidden, "Account is disabled")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		utils.WriteFailure(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateAccessToken(admin.ID, "admin", 12*time.Hour)
	if err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Could not create token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"access_token": token,
			"admin": map[string]interface{}{
				"id":       admin.ID,
				"username": admin.Username,
			},
		},
	})
}
