package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nur922184/server-workbd/utils"
)

// AuthMiddleware validates the bearer token and puts the user id and role in
// the request context. Admin tokens are rejected on user endpoints.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

		claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				utils.WriteFailure(w, http.StatusUnauthorized, "Session expired, please log in again")
				return
			}
			utils.WriteFailure(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		userID := claimID(claims)
		role, _ := claims["role"].(string)
		if role != "user" || userID == 0 {
			utils.WriteFailure(w, http.StatusForbidden, "Access denied")
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, userID)
		ctx = context.WithValue(ctx, utils.UserRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimID(claims map[string]interface{}) uint {
	switch v := claims["id"].(type) {
	case float64:
		return uint(v)
	case int:
		return uint(v)
	}
	return 0
}
