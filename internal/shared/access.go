package shared

import "net/http"

// Roles understood by the access layer.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// RequireLogin rejects anonymous requests with 401 NOT_LOGGED_IN.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()) == nil {
			Fail(w, http.StatusUnauthorized, CodeNotLoggedIn)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without the admin role with 403 FORBIDDEN.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := IdentityFromContext(r.Context())
		if ident == nil || ident.Role != RoleAdmin {
			Fail(w, http.StatusForbidden, CodeForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
