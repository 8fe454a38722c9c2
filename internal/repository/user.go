package repository

import (
	"context"
	"errors"
	"time"

	"eduquebec/internal/logger"
	"eduquebec/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, created_at, is_active, email_verified, verify_token, verify_token_expires_at`

// GetByEmail возвращает (nil, nil), если пользователя нет — отсутствие
// не считается ошибкой, решение принимает сервисный слой.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по email (repo)", zap.String("email", email))
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.IsActive,
		&u.EmailVerified,
		&u.VerifyToken,
		&u.VerifyTokenExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.Log.Error("Ошибка получения пользователя по email (repo)", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return &u, nil
}

// GetByVerifyToken ищет пользователя по точному совпадению токена подтверждения.
func (r *UserRepository) GetByVerifyToken(ctx context.Context, token string) (*models.User, error) {
	logger.Log.Debug("Поиск пользователя по verify-токену (repo)")
	query := `SELECT ` + userColumns + ` FROM users WHERE verify_token = $1`

	var u models.User
	err := r.db.QueryRow(ctx, query, token).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.IsActive,
		&u.EmailVerified,
		&u.VerifyToken,
		&u.VerifyTokenExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.Log.Error("Ошибка поиска по verify-токену (repo)", zap.Error(err))
		return nil, err
	}
	return &u, nil
}

// UpsertUnverified создаёт нового неподтверждённого пользователя или
// перезаписывает существующего (повторная регистрация до подтверждения):
// новый хеш пароля, свежий токен, флаги сброшены.
func (r *UserRepository) UpsertUnverified(ctx context.Context, email, passwordHash, token string, expiresAt time.Time) error {
	logger.Log.Info("Upsert неподтверждённого пользователя (repo)", zap.String("email", email))
	query := `
	INSERT INTO users (email, password_hash, created_at, is_active, email_verified, verify_token, verify_token_expires_at)
	VALUES ($1, $2, now(), false, false, $3, $4)
	ON CONFLICT (email) DO UPDATE SET
		password_hash = EXCLUDED.password_hash,
		is_active = false,
		email_verified = false,
		verify_token = EXCLUDED.verify_token,
		verify_token_expires_at = EXCLUDED.verify_token_expires_at`
	_, err := r.db.Exec(ctx, query, email, passwordHash, token, expiresAt)
	if err != nil {
		logger.Log.Error("Ошибка upsert пользователя (repo)", zap.String("email", email), zap.Error(err))
	}
	return err
}

// Activate подтверждает email: флаги выставляются, токен очищается (одноразовый).
func (r *UserRepository) Activate(ctx context.Context, userID int) error {
	logger.Log.Info("Активация пользователя (repo)", zap.Int("user_id", userID))
	query := `
	UPDATE users SET is_active = true, email_verified = true,
		verify_token = NULL, verify_token_expires_at = NULL
	WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		logger.Log.Error("Ошибка активации пользователя (repo)", zap.Int("user_id", userID), zap.Error(err))
	}
	return err
}

// RotateVerifyToken заменяет токен подтверждения и его срок (resend).
func (r *UserRepository) RotateVerifyToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	logger.Log.Info("Ротация verify-токена (repo)", zap.Int("user_id", userID))
	query := `UPDATE users SET verify_token = $1, verify_token_expires_at = $2 WHERE id = $3`
	_, err := r.db.Exec(ctx, query, token, expiresAt, userID)
	if err != nil {
		logger.Log.Error("Ошибка ротации verify-токена (repo)", zap.Int("user_id", userID), zap.Error(err))
	}
	return err
}
