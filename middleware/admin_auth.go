package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nur922184/server-workbd/utils"
)

// AdminAuthMiddleware is the admin counterpart of AuthMiddleware. Only
// tokens carrying the admin role pass.
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			utils.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

		claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			utils.WriteFailure(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		adminID := claimID(claims)
		role, _ := claims["role"].(string)
		if role != "admin" || adminID == 0 {
			utils.WriteFailure(w, http.StatusForbidden, "Access denied")
			return
		}

		ctx := context.WithValue(r.Context(), utils.AdminIDKey, adminID)
		ctx = context.WithValue(ctx, utils.UserRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
