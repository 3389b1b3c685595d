package utils

import "net/http"

// GetUserID extracts the authenticated user id placed in the request context
// by the auth middleware.
func GetUserID(r *http.Request) (uint, bool) {
	v := r.Context().Value(UserIDKey)
	id, ok := v.(uint)
	return id, ok
}

// GetAdminID extracts the authenticated admin id for approval endpoints.
func GetAdminID(r *http.Request) (uint, bool) {
	v := r.Context().Value(AdminIDKey)
	id, ok := v.(uint)
	return id, ok
}

const AdminIDKey = contextKey("adminID")
