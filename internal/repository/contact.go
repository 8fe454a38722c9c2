package repository

import (
	"context"

	"eduquebec/internal/logger"
	"eduquebec/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Insert(ctx context.Context, msg *models.ContactMessage) error {
	logger.Log.Info("Сохранение сообщения обратной связи (repo)", zap.String("email", msg.Email))
	query := `INSERT INTO contact_messages (name, email, message, created_at) VALUES ($1, $2, $3, now())`
	_, err := r.db.Exec(ctx, query, msg.Name, msg.Email, msg.Message)
	if err != nil {
		logger.Log.Error("Ошибка сохранения сообщения (repo)", zap.Error(err))
	}
	return err
}
