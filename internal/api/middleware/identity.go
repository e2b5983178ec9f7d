package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/banki/banki-srs/internal/api/shared"
)

// UserIDHeader is set by the gateway after authenticating the caller.
const UserIDHeader = "X-User-ID"

var (
	errMissingUserID = errors.New("missing user ID header")
	errInvalidUserID = errors.New("invalid user ID header")
)

// Identity reads the caller's user ID from the X-User-ID header and stores
// it in the request context. Requests without a valid, non-nil UUID are
// rejected with 401.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if raw == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				"Authentication required", errMissingUserID)
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				"Invalid user identity", errInvalidUserID)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), userID)))
	})
}
