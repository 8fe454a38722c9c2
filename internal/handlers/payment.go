package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eduquebec/internal/logger"
	"eduquebec/internal/middleware"
	"eduquebec/internal/services"
	"eduquebec/internal/utils/helpers"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	stripeService *services.StripeService
}

func NewPaymentHandler(stripeService *services.StripeService) *PaymentHandler {
	return &PaymentHandler{stripeService: stripeService}
}

type checkoutRequest struct {
	Product string `json:"product"` // единственный SKU — 'premium'
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckout godoc
// @Summary Создать Stripe Checkout-сессию для покупки премиума
// @Tags payments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body checkoutRequest true "Продукт (только premium)"
// @Success 200 {object} checkoutResponse
// @Failure 400 {object} helpers.ErrorResponse "Неизвестный продукт"
// @Failure 500 {object} helpers.ErrorResponse "Stripe не настроен"
// @Router /payments/checkout [post]
func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Non authentifié.")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Requête invalide.")
		return
	}
	if req.Product != "premium" {
		helpers.Error(w, http.StatusBadRequest, services.ErrInvalidProduct.Error())
		return
	}

	url, err := h.stripeService.CreateCheckoutSession(r.Context(), user.Email)
	switch {
	case errors.Is(err, services.ErrStripeNotConfigured):
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		logger.Log.Error("Ошибка создания Checkout-сессии", zap.Int("user_id", user.ID), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	logger.Log.Info("Checkout-сессия создана", zap.Int("user_id", user.ID))
	helpers.JSON(w, http.StatusOK, checkoutResponse{URL: url})
}
