package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/api/shared"
	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
	"github.com/tareaspendientes/tareas-api/internal/redact"
	"github.com/tareaspendientes/tareas-api/internal/service"
	"github.com/tareaspendientes/tareas-api/internal/service/auth"
)

// TokenCookie is the cookie set by the login flow.
const TokenCookie = "token"

// UserLookup loads the account behind a token.
type UserLookup interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// AuthMiddleware authenticates requests with the session token issued at
// login and only lets approved users through.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      UserLookup
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users UserLookup, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     log.With("component", "auth_middleware"),
	}
}

// Authenticate reads the token from the "token" cookie or a Bearer
// Authorization header, loads the user and stores it in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			var opts []shared.ResponseOption
			if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrExpiredToken) {
				opts = append(opts, shared.WithElevatedLogLevel())
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err, opts...)
			return
		}

		user, err := m.users.GetUser(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "User not found", err)
				return
			}
			m.logger.Error("failed to load authenticated user", "error", redact.Error(err))
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}
		if !user.IsApproved {
			shared.RespondWithError(w, r, http.StatusForbidden, "Account pending approval")
			return
		}

		logger.FromContextOrDefault(r.Context(), m.logger).Debug("request authenticated", "user_id", user.ID)
		next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), user)))
	})
}

// RequireAdmin rejects users without the admin flag. It must run after
// Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := shared.UserFromContext(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !user.IsAdmin {
			shared.RespondWithError(w, r, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
