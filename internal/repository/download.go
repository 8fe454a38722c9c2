package repository

import (
	"context"

	"eduquebec/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type DownloadRepository struct {
	db *pgxpool.Pool
}

func NewDownloadRepository(db *pgxpool.Pool) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Insert пишет одну строку аудита на каждую выдачу файла.
func (r *DownloadRepository) Insert(ctx context.Context, userID int, fileID string) error {
	logger.Log.Info("Аудит выдачи премиум-файла (repo)", zap.Int("user_id", userID), zap.String("file_id", fileID))
	query := `INSERT INTO premium_downloads (user_id, file_id, created_at) VALUES ($1, $2, now())`
	_, err := r.db.Exec(ctx, query, userID, fileID)
	if err != nil {
		logger.Log.Error("Ошибка записи аудита (repo)", zap.Int("user_id", userID), zap.Error(err))
	}
	return err
}
