package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"grimoires/internal/auth"
	"grimoires/internal/httputil"
)

// DevUserHeader lets local clients act as another user when no JWKS is
// configured.
const DevUserHeader = "X-Dev-User"

// HealthPath is always served without authentication
const HealthPath = "/health"

// AuthMiddleware verifies the bearer token and stores the caller in the
// request context. A nil verifier switches to dev mode: every request runs
// as devUserID (or the X-Dev-User header when present). Requests under one
// of publicPrefixes (e.g. the image file route) skip authentication.
//
// EventSource cannot send headers, so the token is also accepted from the
// access_token query parameter.
func AuthMiddleware(verifier auth.JWTVerifier, devUserID string, logger *slog.Logger, publicPrefixes ...string) func(http.Handler) http.Handler {
	prefixes := make([]string, 0, len(publicPrefixes))
	for _, p := range publicPrefixes {
		if p = strings.TrimRight(p, "/"); p != "" {
			prefixes = append(prefixes, p+"/")
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublic(r.URL.Path, prefixes) {
				next.ServeHTTP(w, r)
				return
			}

			if verifier == nil {
				userID := devUserID
				if override := strings.TrimSpace(r.Header.Get(DevUserHeader)); override != "" {
					userID = override
				}
				next.ServeHTTP(w, httputil.WithUserID(r, userID))
				return
			}

			token := bearerToken(r)
			if token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected",
					"path", r.URL.Path,
					"error", err,
				)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithClaims(r, claims))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(r.URL.Query().Get("access_token"))
}

func isPublic(path string, prefixes []string) bool {
	if path == HealthPath {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
