package api

// This file contains the middleware guarding the admin routes.

import (
	"net/http"

	"github.com/vrsandeep/chesscom-helper/internal/auth"
)

// AdminTokenHeader carries the plaintext admin token.
const AdminTokenHeader = "X-Admin-Token"

// AdminOnlyMiddleware checks the admin token against the bcrypt hash in the
// configuration. Without a configured hash every admin request is refused.
func (s *Server) AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hash := s.app.Config().Admin.TokenHash
		if hash == "" {
			RespondWithError(w, http.StatusForbidden, "Forbidden: Admin access is not configured")
			return
		}

		token := r.Header.Get(AdminTokenHeader)
		if token == "" {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized: No admin token")
			return
		}

		if !auth.CheckToken(token, hash) {
			RespondWithError(w, http.StatusForbidden, "Forbidden: Administrator access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
