package middleware

import (
	"context"
	"net/http"

	"eduquebec/internal/logger"
	"eduquebec/internal/models"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type SubscriptionReader interface {
	GetLatestByUserID(ctx context.Context, userID int) (*models.Subscription, error)
}

// RequirePremium пускает дальше только пользователей, у которых самая свежая
// строка подписки имеет статус active. Ни одной строки — тоже отказ.
// Статус не кэшируется: каждый запрос читает актуальную строку.
func RequirePremium(subs SubscriptionReader) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				http.Error(w, "Non authentifié.", http.StatusUnauthorized)
				return
			}

			sub, err := subs.GetLatestByUserID(r.Context(), user.ID)
			if err != nil {
				logger.Log.Error("RequirePremium: ошибка чтения подписки", zap.Int("user_id", user.ID), zap.Error(err))
				http.Error(w, "Erreur interne.", http.StatusInternalServerError)
				return
			}
			if sub == nil || sub.Status != models.SubscriptionActive {
				logger.Log.Warn("RequirePremium: доступ без активной подписки", zap.Int("user_id", user.ID))
				http.Error(w, "Accès premium requis.", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
