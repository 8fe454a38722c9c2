package models

import "time"

type User struct {
	ID                   int        `json:"id"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	IsActive             bool       `json:"is_active"`
	EmailVerified        bool       `json:"email_verified"`
	VerifyToken          *string    `json:"-"`
	VerifyTokenExpiresAt *time.Time `json:"-"`
}
