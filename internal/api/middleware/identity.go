package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/model"
)

// ProfileHeader carries the caller's profile id. A client without one gets
// a fresh id echoed back in the response and is expected to persist it;
// the profile is the unit of local state, not an account.
const ProfileHeader = "X-Tally-Profile"

type contextKey string

const profileContextKey contextKey = "profile"

// Identity resolves the caller's profile id, minting one for first-time
// callers. The resolved id is always echoed in the response header.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile := r.Header.Get(ProfileHeader)
			if profile == "" {
				profile = uuid.NewString()
			}
			w.Header().Set(ProfileHeader, profile)

			ctx := context.WithValue(r.Context(), profileContextKey, model.ProfileID(profile))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetProfile returns the profile id from the request context
func GetProfile(ctx context.Context) model.ProfileID {
	profile, _ := ctx.Value(profileContextKey).(model.ProfileID)
	return profile
}

// MustGetProfile returns the profile id or panics
func MustGetProfile(ctx context.Context) model.ProfileID {
	profile := GetProfile(ctx)
	if profile == "" {
		panic("no profile in context - identity middleware not applied?")
	}
	return profile
}

// ExtractToken pulls the edit token from the request: the token query
// parameter (how share links carry it) or a bearer Authorization header.
// Absence is not an error; it just means read-only for non-owners.
func ExtractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
