package auth

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/nur922184/server-workbd/config"
	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/ledger"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/referral"
	"github.com/nur922184/server-workbd/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.ReferralCode = strings.TrimSpace(req.ReferralCode)

	if req.Name == "" {
		utils.WriteFailure(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.WriteFailure(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < 6 {
		utils.WriteFailure(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	db := database.DB

	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.WriteFailure(w, http.StatusConflict, "Email is already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[register] DB error checking email: %v", err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	code, err := generateUniqueReffCode(db, 8)
	if err != nil {
		log.Printf("[register] generateUniqueReffCode error: %v", err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	bonus := config.Get().SignupBonus
	newUser := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		ReffCode: code,
		Status:   "Active",
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		if bonus <= 0 {
			return nil
		}
		msg := "Signup bonus"
		_, err := ledger.Credit(tx, newUser.ID, bonus, ledger.Entry{
			Type:    models.TxTypeReferralBonus,
			Message: &msg,
		})
		return err
	})
	if err != nil {
		log.Printf("[register] DB Create user error: %v", err)
		utils.WriteFailure(w, http.StatusInternalServerError, "Registration failed, please try again")
		return
	}

	// A referral edge failure must not undo the account; the edge can be
	// fixed by support afterwards.
	if req.ReferralCode != "" {
		if _, err := referral.RegisterEdge(db, newUser.ID, req.ReferralCode, newUser.Email); err != nil {
			switch {
			case errors.Is(err, referral.ErrInvalidReferralCode),
				errors.Is(err, referral.ErrSelfReferral),
				errors.Is(err, referral.ErrAlreadyReferred):
				utils.WriteFailure(w, http.StatusBadRequest, err.Error())
				return
			default:
				log.Printf("[register] referral edge for user %d failed: %v", newUser.ID, err)
			}
		}
	}

	token, err := utils.GenerateAccessToken(newUser.ID, "user", 24*time.Hour)
	if err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Could not create token")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Registration successful",
		Data: map[string]interface{}{
			"access_token": token,
			"user": map[string]interface{}{
				"id":        newUser.ID,
				"name":      newUser.Name,
				"email":     newUser.Email,
				"reff_code": newUser.ReffCode,
				"balance":   bonus,
			},
		},
	})
}

func generateUniqueReffCode(db *gorm.DB, length int) (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxAttempts := 100

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := randomString(alphabet, length)
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.User{}).Where("reff_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique referral code after %d attempts", maxAttempts)
}

func randomString(alphabet string, length int) (string, error) {
	buf := make([]byte, length)
	out := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := 0; i < length; i++ {
		out[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(out), nil
}
