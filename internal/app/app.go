package app

import (
	"context"

	"eduquebec/internal/config"
	"eduquebec/internal/db"
	"eduquebec/internal/handlers"
	"eduquebec/internal/middleware"
	"eduquebec/internal/repository"
	"eduquebec/internal/routes"
	"eduquebec/internal/services"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	if err := db.RunMigrations(context.Background(), cfg); err != nil {
		return nil, err
	}

	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	subRepo := repository.NewSubscriptionRepository(conn)
	downloadRepo := repository.NewDownloadRepository(conn)
	contactRepo := repository.NewContactRepository(conn)

	// Сервисы
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo, cfg)
	stripeService := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.FrontendBaseURL)
	storageService := services.NewStorageService(cfg)
	premiumService := services.NewPremiumService(downloadRepo, subRepo, storageService, cfg)

	// Воркеры отправки почты
	for i := 0; i < 3; i++ {
		services.StartEmailWorker(emailService)
	}

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService)
	paymentHandler := handlers.NewPaymentHandler(stripeService)
	webhookHandler := handlers.NewWebhookHandler(stripeService, userRepo, subRepo)
	premiumHandler := handlers.NewPremiumHandler(premiumService)
	contactHandler := handlers.NewContactHandler(contactRepo)
	cvHandler := handlers.NewCVHandler()

	// Миддлвари с зависимостями
	authMW := middleware.JWTAuth(cfg.JWTSecret, userRepo)
	premiumMW := middleware.RequirePremium(subRepo)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, authHandler, paymentHandler, webhookHandler, premiumHandler, contactHandler, cvHandler, authMW, premiumMW)

	return router, nil
}
