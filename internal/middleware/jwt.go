package middleware

import (
	"context"
	"net/http"
	"strings"

	"eduquebec/internal/logger"
	"eduquebec/internal/models"
	"eduquebec/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ContextKey string

const ContextUser ContextKey = "user"

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// JWTAuth разбирает Bearer-токен, проверяет подпись/срок и резолвит субъект
// токена в пользователя. Любой сбой по цепочке — 401.
func JWTAuth(secret string, users UserProvider) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Log.Warn("JWTAuth: отсутствует access token")
				http.Error(w, "Non authentifié.", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			email, err := utils.ParseToken(secret, tokenString)
			if err != nil {
				logger.Log.Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
				http.Error(w, "Token invalide.", http.StatusUnauthorized)
				return
			}

			user, err := users.GetByEmail(r.Context(), email)
			if err != nil || user == nil {
				logger.Log.Warn("JWTAuth: субъект токена не найден", zap.String("email", email), zap.Error(err))
				http.Error(w, "Utilisateur introuvable.", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextUser, user)

			logger.Log.Debug("JWTAuth: токен валиден", zap.Int("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext достаёт пользователя, положенного JWTAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ContextUser).(*models.User)
	return u, ok
}
