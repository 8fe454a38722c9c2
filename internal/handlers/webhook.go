package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"eduquebec/internal/logger"
	"eduquebec/internal/models"
	"eduquebec/internal/services"
	"eduquebec/internal/utils/helpers"

	"go.uber.org/zap"
)

type webhookUserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type webhookSubscriptionWriter interface {
	Insert(ctx context.Context, userID int, status, provider, providerRef string) error
}

type WebhookHandler struct {
	stripeService *services.StripeService
	users         webhookUserReader
	subs          webhookSubscriptionWriter
}

func NewWebhookHandler(stripeService *services.StripeService, users webhookUserReader, subs webhookSubscriptionWriter) *WebhookHandler {
	return &WebhookHandler{
		stripeService: stripeService,
		users:         users,
		subs:          subs,
	}
}

// HandleStripe godoc
// @Summary Обработка webhook от Stripe
// @Description Подпись проверяется по сырым байтам тела. Неизвестные события
// @Description и несуществующие email подтверждаются как no-op, чтобы Stripe
// @Description не заваливал нас ретраями.
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} okResponse
// @Failure 400 {object} helpers.ErrorResponse "Подпись не прошла проверку"
// @Failure 500 {object} helpers.ErrorResponse "Секрет вебхука не настроен"
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Requête invalide.")
		return
	}

	event, err := h.stripeService.ConstructEvent(payload, r.Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, services.ErrWebhookNotConfigured):
		logger.Log.Error("Webhook вызван без настроенного секрета")
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		logger.Log.Warn("Webhook: подпись не прошла проверку", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, services.ErrInvalidSignature.Error())
		return
	}

	logger.Log.Info("Webhook получен", zap.String("event", event.Type), zap.String("event_id", event.ID))

	if event.Type == "checkout.session.completed" {
		h.activateSubscription(r.Context(), event)
	}

	// Провайдеру всегда отвечаем успехом: внутренние промахи — не его проблема
	helpers.JSON(w, http.StatusOK, okResponse{OK: true})
}

// activateSubscription добавляет строку active-подписки по email из metadata.
// Все внутренние сбои глотаются: вебхук уже подтверждён.
func (h *WebhookHandler) activateSubscription(ctx context.Context, event *services.WebhookEvent) {
	email := services.NormalizeEmail(event.Data.Object.Metadata["email"])
	if email == "" {
		logger.Log.Warn("Webhook: в metadata нет email", zap.String("session_id", event.Data.Object.ID))
		return
	}

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil || user == nil {
		logger.Log.Warn("Webhook: пользователь по email не найден", zap.String("email", email), zap.Error(err))
		return
	}

	if err := h.subs.Insert(ctx, user.ID, models.SubscriptionActive, "stripe", event.Data.Object.ID); err != nil {
		logger.Log.Error("Webhook: не удалось записать подписку", zap.Int("user_id", user.ID), zap.Error(err))
		return
	}

	logger.Log.Info("Подписка активирована по вебхуку",
		zap.Int("user_id", user.ID), zap.String("session_id", event.Data.Object.ID))
}
