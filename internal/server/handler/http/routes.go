package http

import (
	"net/http"
	"time"

	"github.com/teameicu/careportal/internal/middleware"
	"github.com/teameicu/careportal/internal/models"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// NewRouter constructs the portal API handler.
//
// Routes:
//
//	GET  /                     → liveness message
//	POST /register             → authHandler.Register
//	POST /login                → authHandler.Login      (rate limited)
//	POST /email-otp            → authHandler.SendOTP    (rate limited)
//	POST /verify-otp           → authHandler.VerifyOTP
//	POST /contact              → contactHandler.Contact
//	POST /predict              → predictHandler.Predict        (auth)
//	GET  /user/history         → predictHandler.History        (auth)
//	GET  /user/download-report → predictHandler.DownloadReport (auth)
//	GET  /doctor/patients      → predictHandler.Patients       (auth + Doctor)
//	GET  /admin/analytics      → predictHandler.Analytics      (auth + Admin)
func NewRouter(
	authHandler *AuthHandler,
	predictHandler *PredictHandler,
	contactHandler *ContactHandler,
	verifier middleware.TokenVerifier,
	users middleware.UserSource,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// The browser frontend is served from a different origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Backend running successfully"})
	})

	// Public endpoints
	r.Post("/register", authHandler.Register)
	r.Post("/verify-otp", authHandler.VerifyOTP)
	r.Post("/contact", contactHandler.Contact)

	// Credential and mail endpoints get a per-IP budget.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(10, time.Minute))
		r.Post("/login", authHandler.Login)
		r.Post("/email-otp", authHandler.SendOTP)
	})

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(verifier))

		r.Post("/predict", predictHandler.Predict)
		r.Get("/user/history", predictHandler.History)
		r.Get("/user/download-report", predictHandler.DownloadReport)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(users, models.RoleDoctor, models.RoleAdmin))
			r.Get("/doctor/patients", predictHandler.Patients)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(users, models.RoleAdmin))
			r.Get("/admin/analytics", predictHandler.Analytics)
		})
	})

	return r
}
