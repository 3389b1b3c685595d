package admins

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
)

// GET /v3/admins/users?search=&page=&limit=
func ListUsers(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}

	query := database.DB.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR name LIKE ? OR reff_code LIKE ?", like, like, like)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	var users []models.User
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).
		Find(&users).Error; err != nil {
		utils.WriteFailure(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": users,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}
