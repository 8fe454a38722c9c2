package models

import "time"

// PremiumDownload — запись аудита: кто и когда получил премиум-файл
// (подписанная ссылка или прямое скачивание).
type PremiumDownload struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	FileID    string    `json:"file_id"`
	CreatedAt time.Time `json:"created_at"`
}
