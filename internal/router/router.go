package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"nutrilog/internal/handlers"
	mw "nutrilog/internal/middleware"
)

type Deps struct {
	Logger         *zap.Logger
	Registry       *prometheus.Registry
	AllowedOrigins []string
	Auth           *mw.AuthMiddleware
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	Nutrition      *handlers.NutritionHandler
}

func New(d Deps) http.Handler {
	metrics := mw.NewMetrics(d.Registry)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.ZapRequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", d.AuthHandler.Register)
		api.Post("/auth/login", d.AuthHandler.Login)
		api.Get("/auth/oauth2/google", d.AuthHandler.GoogleLogin)
		api.Get("/auth/oauth2/callback", d.AuthHandler.GoogleCallback)

		api.Group(func(pr chi.Router) {
			pr.Use(d.Auth.RequireAuth)
			pr.Get("/auth/me", d.AuthHandler.Me)

			pr.Get("/user/batch", d.UserHandler.Batch)
			pr.Get("/user/profile/{id}", d.UserHandler.Get)
			pr.Put("/user/profile/{id}", d.UserHandler.UpdateProfile)
			pr.Get("/user/{id}", d.UserHandler.Get)
			pr.Put("/user/{id}", d.UserHandler.Update)
			pr.Post("/user/{id}/follow", d.UserHandler.Follow)
			pr.Post("/user/{id}/unfollow", d.UserHandler.Unfollow)

			pr.Put("/nutrition/profile/{userId}", d.Nutrition.UpdateProfile)
			pr.Post("/nutrition/food/{userId}", d.Nutrition.LogFood)
			pr.Post("/nutrition/water/{userId}", d.Nutrition.LogWater)
			pr.Get("/nutrition/progress/daily/{userId}", d.Nutrition.DailyProgress)
			pr.Get("/nutrition/progress/weekly/{userId}", d.Nutrition.WeeklyProgress)
		})
	})
	return r
}
