package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nur922184/server-workbd/database"
	"github.com/nur922184/server-workbd/models"
	"github.com/nur922184/server-workbd/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	database.SetDB(db)
	t.Setenv("JWT_SECRET", "test-secret")
	return db
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRegisterCreatesUserWithReferralCode(t *testing.T) {
	db := setupTestDB(t)

	rec := postJSON(t, RegisterHandler, "/v3/register", RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	require.Len(t, user.ReffCode, 8)
	require.NotEqual(t, "secret1", user.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)

	req := RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"}
	rec := postJSON(t, RegisterHandler, "/v3/register", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, RegisterHandler, "/v3/register", req)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.False(t, decodeResponse(t, rec).Success)
}

func TestRegisterWithReferralCodeCreatesPendingEdge(t *testing.T) {
	db := setupTestDB(t)

	rec := postJSON(t, RegisterHandler, "/v3/register", RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var referrer models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&referrer).Error)

	rec = postJSON(t, RegisterHandler, "/v3/register", RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "secret1",
		ReferralCode: referrer.ReffCode,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var bob models.User
	require.NoError(t, db.Where("email = ?", "bob@example.com").First(&bob).Error)
	var edge models.Referral
	require.NoError(t, db.Where("referred_user_id = ?", bob.ID).First(&edge).Error)
	require.Equal(t, referrer.ID, edge.ReferrerUserID)
	require.Equal(t, models.ReferralStatusPending, edge.Status)
}

func TestRegisterInvalidReferralCode(t *testing.T) {
	setupTestDB(t)

	rec := postJSON(t, RegisterHandler, "/v3/register", RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "secret1",
		ReferralCode: "NOSUCH",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	setupTestDB(t)

	rec := postJSON(t, RegisterHandler, "/v3/register", RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, LoginHandler, "/v3/login", LoginRequest{
		Email: "alice@example.com", Password: "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	require.NotEmpty(t, data["access_token"])

	rec = postJSON(t, LoginHandler, "/v3/login", LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
