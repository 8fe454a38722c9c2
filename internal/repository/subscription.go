package repository

import (
	"context"
	"errors"

	"eduquebec/internal/logger"
	"eduquebec/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Insert добавляет строку истории. Повторная доставка вебхука даст
// дубликат — это допустимо, текущий статус читается по самой свежей строке.
func (r *SubscriptionRepository) Insert(ctx context.Context, userID int, status, provider, providerRef string) error {
	logger.Log.Info("Добавление строки подписки (repo)",
		zap.Int("user_id", userID), zap.String("status", status), zap.String("provider", provider))
	query := `
	INSERT INTO subscriptions (user_id, status, provider, provider_ref, updated_at)
	VALUES ($1, $2, $3, $4, now())`
	_, err := r.db.Exec(ctx, query, userID, status, provider, providerRef)
	if err != nil {
		logger.Log.Error("Ошибка добавления подписки (repo)", zap.Int("user_id", userID), zap.Error(err))
	}
	return err
}

// GetLatestByUserID возвращает самую свежую строку истории или (nil, nil),
// если подписки никогда не было.
func (r *SubscriptionRepository) GetLatestByUserID(ctx context.Context, userID int) (*models.Subscription, error) {
	logger.Log.Debug("Получение последней подписки (repo)", zap.Int("user_id", userID))
	query := `
	SELECT id, user_id, status, COALESCE(provider, ''), COALESCE(provider_ref, ''), updated_at
	FROM subscriptions
	WHERE user_id = $1
	ORDER BY updated_at DESC, id DESC
	LIMIT 1`

	var s models.Subscription
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.Status,
		&s.Provider,
		&s.ProviderRef,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.Log.Error("Ошибка получения подписки (repo)", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &s, nil
}
