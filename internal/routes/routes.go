package routes

import (
	"eduquebec/internal/handlers"
	"eduquebec/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	authHandler *handlers.AuthHandler,
	paymentHandler *handlers.PaymentHandler,
	webhookHandler *handlers.WebhookHandler,
	premiumHandler *handlers.PremiumHandler,
	contactHandler *handlers.ContactHandler,
	cvHandler *handlers.CVHandler,
	authMW mux.MiddlewareFunc,
	premiumMW mux.MiddlewareFunc,
) {
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	// --- Публичные маршруты ---
	router.HandleFunc("/health", handlers.Health).Methods("GET")
	router.HandleFunc("/contact", contactHandler.Contact).Methods("POST")

	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/verify", authHandler.Verify).Methods("GET")
	auth.HandleFunc("/resend-verification", authHandler.ResendVerification).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	// Вебхук без JWT: Stripe авторизуется подписью тела
	router.HandleFunc("/webhooks/stripe", webhookHandler.HandleStripe).Methods("POST")

	// --- Защищённые JWT ---
	payments := router.PathPrefix("/payments").Subrouter()
	payments.Use(authMW)
	payments.HandleFunc("/checkout", paymentHandler.CreateCheckout).Methods("POST")

	cv := router.PathPrefix("/cv").Subrouter()
	cv.Use(authMW)
	cv.HandleFunc("/generate", cvHandler.Generate).Methods("POST")

	premium := router.PathPrefix("/premium").Subrouter()
	premium.Use(authMW)
	premium.HandleFunc("/status", premiumHandler.Status).Methods("GET")
	premium.HandleFunc("/files", premiumHandler.ListFiles).Methods("GET")

	// --- Только с активной подпиской ---
	gated := premium.PathPrefix("").Subrouter()
	gated.Use(premiumMW)
	gated.HandleFunc("/signed-url/{file_id}", premiumHandler.SignedURL).Methods("GET")
	gated.HandleFunc("/download/{file_id}", premiumHandler.Download).Methods("GET")
}
