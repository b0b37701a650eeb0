package auth

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/reelkeep/reelkeep/internal/httputil"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// ContextUser is the authenticated identity attached to a request.
type ContextUser struct {
	UserID  uuid.UUID
	IsAdmin bool
}

func UserFromContext(ctx context.Context) *ContextUser {
	u, _ := ctx.Value(userContextKey).(*ContextUser)
	return u
}

// Middleware resolves the bearer token and attaches the user to the
// request context. Requests without a valid token pass through
// unauthenticated; handlers decide what requires auth.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if claims, err := a.VerifyToken(token); err == nil {
				ctx := context.WithValue(r.Context(), userContextKey,
					&ContextUser{UserID: claims.UserID, IsAdmin: claims.IsAdmin})
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ──────────────────── Login rate limiting ────────────────────

// LoginLimiter throttles login attempts per remote address.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{limiters: make(map[string]*rate.Limiter)}
}

// Allow reports whether another attempt from addr may proceed.
// 1 attempt per 2 seconds sustained, bursts of 5.
func (l *LoginLimiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[addr]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(0.5), 5)
		l.limiters[addr] = lim
	}
	return lim.Allow()
}
