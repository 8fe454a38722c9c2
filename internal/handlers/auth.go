package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eduquebec/internal/logger"
	"eduquebec/internal/services"
	"eduquebec/internal/utils/helpers"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type okResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerRequest true "Email и пароль"
// @Success 200 {object} okResponse
// @Failure 400 {object} helpers.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} helpers.ErrorResponse "Email уже подтверждён"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Ошибка декодирования JSON в Register", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Requête invalide.")
		return
	}
	if err := validate.Struct(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Email ou mot de passe manquant.")
		return
	}
	logger.Log.Info("Регистрация пользователя", zap.String("email", req.Email))

	err := h.authService.Register(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, services.ErrAlreadyRegistered):
		helpers.Error(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		logger.Log.Error("Ошибка регистрации пользователя", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	helpers.JSON(w, http.StatusOK, okResponse{
		OK:      true,
		Message: "Email de confirmation envoyé. Veuillez activer votre compte.",
	})
}

// Verify godoc
// @Summary Подтвердить email по токену из письма
// @Tags auth
// @Produce json
// @Param token query string true "Токен подтверждения"
// @Success 200 {object} okResponse
// @Failure 400 {object} helpers.ErrorResponse "Токен неверен или просрочен"
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	err := h.authService.Verify(r.Context(), token)
	switch {
	case errors.Is(err, services.ErrTokenInvalid), errors.Is(err, services.ErrTokenExpired):
		logger.Log.Warn("Ошибка подтверждения email", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.Log.Error("Внутренняя ошибка при подтверждении email", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	helpers.JSON(w, http.StatusOK, okResponse{
		OK:      true,
		Message: "Compte activé. Vous pouvez vous connecter.",
	})
}

// ResendVerification godoc
// @Summary Повторная отправка письма активации
// @Description Ответ всегда ok-формы: существование аккаунта не раскрывается.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body resendRequest true "Email пользователя"
// @Success 200 {object} okResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Requête invalide.")
		return
	}
	if err := validate.Struct(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Email manquant.")
		return
	}

	message, err := h.authService.Resend(r.Context(), req.Email)
	if err != nil {
		logger.Log.Error("Ошибка повторной отправки письма", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	helpers.JSON(w, http.StatusOK, okResponse{OK: true, Message: message})
}

// Login godoc
// @Summary Авторизация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Success 200 {object} loginResponse
// @Failure 401 {object} helpers.ErrorResponse "Неверные учётные данные"
// @Failure 403 {object} helpers.ErrorResponse "Аккаунт не активирован"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Ошибка декодирования JSON в Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Requête invalide.")
		return
	}
	if err := validate.Struct(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Email ou mot de passe manquant.")
		return
	}
	logger.Log.Info("Попытка входа", zap.String("email", req.Email))

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		helpers.Error(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, services.ErrAccountNotActivated):
		helpers.Error(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		logger.Log.Error("Ошибка входа", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	helpers.JSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}
