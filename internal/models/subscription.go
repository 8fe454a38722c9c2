package models

import "time"

// Subscription — одна строка истории подписки. Текущий статус пользователя
// определяется самой свежей строкой; строки не обновляются, только добавляются.
type Subscription struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Status      string    `json:"status"` // active|inactive
	Provider    string    `json:"provider"`
	ProviderRef string    `json:"provider_ref"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const SubscriptionActive = "active"
