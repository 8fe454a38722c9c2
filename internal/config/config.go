package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret      string
	AccessTokenTTL string

	Log      string
	LogLevel string
	Env      string // dev|prod

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	StripeSecretKey     string
	StripeWebhookSecret string

	S3Endpoint     string
	S3AccessKeyID  string
	S3SecretKey    string
	S3Region       string
	S3Bucket       string
	S3Prefix       string
	S3SignedURLTTL string

	FrontendBaseURL string
	VerifyTokenTTL  string
	AssetsDir       string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "2h"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     def(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     def(os.Getenv("SMTP_FROM"), "EduQuébec <no-reply@eduquebec.ca>"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		S3Endpoint:     os.Getenv("S3_ENDPOINT_URL"),
		S3AccessKeyID:  os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:    os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Region:       def(os.Getenv("S3_REGION"), "auto"), // R2 использует 'auto'
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Prefix:       def(os.Getenv("S3_PREFIX"), "premium/"),
		S3SignedURLTTL: def(os.Getenv("S3_SIGNED_URL_EXPIRES"), "5m"),

		FrontendBaseURL: def(os.Getenv("FRONTEND_BASE_URL"), "http://127.0.0.1:5500"),
		VerifyTokenTTL:  def(os.Getenv("EMAIL_VERIFY_EXPIRES"), "60m"),
		AssetsDir:       def(os.Getenv("ASSETS_DIR"), "assets/premium"),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	// Stripe — предупреждение: без оплат премиум просто не купить
	if c.StripeSecretKey == "" || c.StripeWebhookSecret == "" {
		warnings = append(warnings, "Stripe credentials are not set")
	}

	// SMTP — предупреждение: письма уйдут в лог (dev fallback)
	if c.SMTPHost == "" {
		warnings = append(warnings, "SMTP is not configured, emails go to the log")
	}

	// S3 — предупреждение: файлы будут отдаваться с локального диска
	if !c.S3Configured() {
		warnings = append(warnings, "S3 is not fully configured, premium files are served from local disk")
	}

	return warnings, nil
}

// S3Configured — true, если заданы все параметры объектного хранилища.
func (c *Config) S3Configured() bool {
	return c.S3Endpoint != "" && c.S3AccessKeyID != "" && c.S3SecretKey != "" && c.S3Bucket != ""
}

// ParseTTL разбирает строку длительности; при мусоре в env вернёт fallback.
func ParseTTL(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
