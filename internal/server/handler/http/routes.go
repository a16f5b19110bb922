package http

import (
	"net/http"

	"github.com/prodan/storefront/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs and returns an HTTP handler that serves the
// storefront API. It applies request logging and bearer-token
// authentication, and mounts the auth, catalog, and payment endpoints
// under /api.
//
// Routes:
//
//	POST   /api/auth/login                   → authHandler.Login (public)
//	POST   /api/auth/register                → authHandler.Register (public)
//	POST   /api/auth/social-register         → authHandler.Register (public)
//	POST   /api/auth/reset-password-request  → authHandler.ResetPasswordRequest (public)
//	POST   /api/auth/validate-token          → authHandler.ValidateToken
//	GET    /api/auth/get-user-role           → authHandler.GetUserRole
//	POST   /api/auth/verify-admin            → authHandler.VerifyAdmin
//	GET    /api/auth/get-all-users           → authHandler.GetAllUsers (admin)
//	PUT    /api/auth/update-user             → authHandler.UpdateUser (admin)
//	DELETE /api/auth/delete-user             → authHandler.DeleteUser (admin)
//	GET    /api/produits                     → productHandler.List
//	POST   /api/produits                     → productHandler.Create (admin)
//	PUT    /api/produits/{id}                → productHandler.Update (admin)
//	DELETE /api/produits/{id}                → productHandler.Delete (admin)
//	POST   /api/payment/process/mobile       → paymentHandler.ProcessMobile
//	POST   /api/payment/process/card         → paymentHandler.ProcessCard
//	GET    /api/payment/status               → paymentHandler.Status
//
// Middleware chain (applied in order):
//  1. WithRequestLogging(logger) — logs incoming requests
//  2. BearerAuth(secret)         — enforces bearer-token auth outside the public endpoints
func NewRouter(
	authHandler *AuthHandler,
	productHandler *ProductHandler,
	paymentHandler *PaymentHandler,
	secret string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Enforce bearer-token authentication
	r.Use(middleware.BearerAuth(secret))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public endpoints
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/social-register", authHandler.Register)
			r.Post("/reset-password-request", authHandler.ResetPasswordRequest)

			// Protected endpoints
			r.Post("/validate-token", authHandler.ValidateToken)
			r.Get("/get-user-role", authHandler.GetUserRole)
			r.Post("/verify-admin", authHandler.VerifyAdmin)
			r.Get("/get-all-users", authHandler.GetAllUsers)
			r.Put("/update-user", authHandler.UpdateUser)
			r.Delete("/delete-user", authHandler.DeleteUser)
		})

		r.Route("/produits", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Post("/process/mobile", paymentHandler.ProcessMobile)
			r.Post("/process/card", paymentHandler.ProcessCard)
			r.Get("/status", paymentHandler.Status)
		})
	})

	return r
}
