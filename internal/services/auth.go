package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eduquebec/internal/config"
	"eduquebec/internal/logger"
	"eduquebec/internal/models"
	"eduquebec/internal/utils"
	"eduquebec/internal/utils/helpers"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Тексты ошибок — на языке продукта, хендлеры отдают их клиенту как есть.
var (
	ErrPasswordTooShort    = errors.New("Mot de passe trop court (8 caractères minimum).")
	ErrAlreadyRegistered   = errors.New("Utilisateur déjà enregistré.")
	ErrInvalidCredentials  = errors.New("Identifiants invalides.")
	ErrAccountNotActivated = errors.New("Compte non activé. Vérifiez votre email.")
	ErrTokenExpired        = errors.New("Lien expiré. Demandez un nouvel email.")
	ErrTokenInvalid        = errors.New("Lien invalide ou expiré.")
)

type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerifyToken(ctx context.Context, token string) (*models.User, error)
	UpsertUnverified(ctx context.Context, email, passwordHash, token string, expiresAt time.Time) error
	Activate(ctx context.Context, userID int) error
	RotateVerifyToken(ctx context.Context, userID int, token string, expiresAt time.Time) error
}

type AuthService struct {
	repo        UserRepo
	jwtSecret   string
	accessTTL   time.Duration
	verifyTTL   time.Duration
	frontendURL string
}

func NewAuthService(repo UserRepo, cfg *config.Config) *AuthService {
	return &AuthService{
		repo:        repo,
		jwtSecret:   cfg.JWTSecret,
		accessTTL:   config.ParseTTL(cfg.AccessTokenTTL, 2*time.Hour),
		verifyTTL:   config.ParseTTL(cfg.VerifyTokenTTL, time.Hour),
		frontendURL: strings.TrimRight(cfg.FrontendBaseURL, "/"),
	}
}

// NormalizeEmail — email сравнивается и хранится в нижнем регистре без пробелов.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newVerifyToken() string {
	// uuid без дефисов — криптостойкий и URL-safe
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *AuthService) verifyLink(token string) string {
	return fmt.Sprintf("%s/verify.html?token=%s", s.frontendURL, token)
}

// Register реализует машину состояний регистрации:
// подтверждённый пользователь — конфликт; неподтверждённый — перезапись
// с новым токеном (старый перестаёт действовать); новый — создание.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)
	logger.Log.Info("Регистрация пользователя (service)", zap.String("email", email))

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.EmailVerified {
		logger.Log.Warn("Повторная регистрация подтверждённого email (service)", zap.String("email", email))
		return ErrAlreadyRegistered
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return err
	}

	token := newVerifyToken()
	expires := time.Now().UTC().Add(s.verifyTTL)

	if err := s.repo.UpsertUnverified(ctx, email, hashed, token, expires); err != nil {
		return err
	}

	link := s.verifyLink(token)
	ttlMin := int(s.verifyTTL.Minutes())
	Enqueue(EmailJob{
		To:      []string{email},
		Subject: "Confirmez votre email — EduQuébec",
		Body:    helpers.BuildVerificationHTML(link, ttlMin),
		Text:    fmt.Sprintf("Activez votre compte EduQuébec: %s (expire dans %d minutes).", link, ttlMin),
	})

	logger.Log.Info("Пользователь зарегистрирован, письмо поставлено в очередь (service)", zap.String("email", email))
	return nil
}

// Verify подтверждает email по одноразовому токену.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenInvalid
	}

	u, err := s.repo.GetByVerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if u == nil {
		logger.Log.Warn("Verify: токен не найден (service)")
		return ErrTokenInvalid
	}
	if u.VerifyTokenExpiresAt != nil && u.VerifyTokenExpiresAt.Before(time.Now().UTC()) {
		logger.Log.Warn("Verify: токен просрочен (service)", zap.Int("user_id", u.ID))
		return ErrTokenExpired
	}

	if err := s.repo.Activate(ctx, u.ID); err != nil {
		return err
	}
	logger.Log.Info("Email подтверждён, аккаунт активирован (service)", zap.Int("user_id", u.ID))
	return nil
}

// Resend повторно отправляет письмо активации. Наружу всегда уходит
// ok-ответ: существование аккаунта не раскрываем.
func (s *AuthService) Resend(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	logger.Log.Info("Повторная отправка письма активации (service)", zap.String("email", email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "Si un compte existe, un email a été envoyé.", nil
	}
	if u.EmailVerified {
		return "Compte déjà activé.", nil
	}

	token := newVerifyToken()
	expires := time.Now().UTC().Add(s.verifyTTL)
	if err := s.repo.RotateVerifyToken(ctx, u.ID, token, expires); err != nil {
		return "", err
	}

	link := s.verifyLink(token)
	Enqueue(EmailJob{
		To:      []string{email},
		Subject: "Nouveau lien de confirmation — EduQuébec",
		Body:    helpers.BuildResendHTML(link),
		Text:    fmt.Sprintf("Nouveau lien d’activation EduQuébec: %s", link),
	})

	return "Email envoyé.", nil
}

// Login проверяет пароль и состояние аккаунта, выдаёт access-токен.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	logger.Log.Info("Попытка входа (service)", zap.String("email", email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil || !utils.CheckPasswordHash(password, u.PasswordHash) {
		logger.Log.Warn("Неверные учётные данные (service)", zap.String("email", email))
		return "", ErrInvalidCredentials
	}
	if !u.EmailVerified || !u.IsActive {
		logger.Log.Warn("Вход до активации аккаунта (service)", zap.String("email", email))
		return "", ErrAccountNotActivated
	}

	token, err := utils.GenerateToken(s.jwtSecret, u.Email, s.accessTTL)
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", err
	}

	logger.Log.Info("Вход выполнен (service)", zap.String("email", email))
	return token, nil
}
