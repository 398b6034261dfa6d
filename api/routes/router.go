package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kadavakolla169-collab/SmartCartShop/api/controllers"
	"github.com/kadavakolla169-collab/SmartCartShop/api/middleware"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/auth/session"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/config"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/enums"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/logger"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/metrics"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/redis"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker
	Redis    *redis.Client
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	Health         *controllers.HealthController
	Auth           *controllers.AuthController
	Products       *controllers.ProductsController
	Cart           *controllers.CartController
	Orders         *controllers.OrdersController
	Sustainability *controllers.SustainabilityController
}

// New builds the HTTP router with the full middleware chain and route tree.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.CORS())
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}

	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	authMW := middleware.Auth(deps.Config.JWT, deps.Sessions, deps.Logger)
	adminMW := middleware.RequireRole(string(enums.UserRoleAdmin), deps.Logger)

	rl := deps.Config.AuthRateLimit
	loginPolicy := middleware.NewAuthRateLimitPolicy("login", rl.LoginWindow, rl.LoginIPLimit, rl.LoginEmailLimit)
	registerPolicy := middleware.NewAuthRateLimitPolicy("register", rl.RegisterWindow, rl.RegisterIPLimit, rl.RegisterEmailLimit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, deps.Logger)).
				Post("/register", deps.Auth.Register)
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, deps.Logger)).
				Post("/login", deps.Auth.Login)
			r.Post("/refresh", deps.Auth.Refresh)
			r.With(authMW).Post("/logout", deps.Auth.Logout)
			r.With(authMW, adminMW).Post("/admins", deps.Auth.CreateAdmin)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Products.List)
			r.Get("/{productId}", deps.Products.Get)

			r.Group(func(r chi.Router) {
				r.Use(authMW, adminMW)
				r.Post("/", deps.Products.Create)
				r.Put("/{productId}", deps.Products.Update)
				r.Delete("/{productId}", deps.Products.Delete)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/", deps.Cart.Get)
			r.Post("/", deps.Cart.Add)
			r.Put("/{itemId}", deps.Cart.UpdateItem)
			r.Delete("/{itemId}", deps.Cart.RemoveItem)
			r.Delete("/", deps.Cart.Clear)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/", deps.Orders.List)
			r.Post("/", deps.Orders.Checkout)
			r.Get("/{orderId}", deps.Orders.Get)
			r.Put("/{orderId}", deps.Orders.UpdateStatus)
			r.Delete("/{orderId}", deps.Orders.Cancel)
		})

		r.Route("/sustainability", func(r chi.Router) {
			r.Get("/leaderboard", deps.Sustainability.Leaderboard)

			r.Group(func(r chi.Router) {
				r.Use(authMW)
				r.Get("/dashboard", deps.Sustainability.Dashboard)
				r.Get("/cart-impact", deps.Sustainability.CartImpact)
				r.Get("/preferences", deps.Sustainability.GetPreferences)
				r.Put("/preferences", deps.Sustainability.UpdatePreferences)
			})
		})
	})

	return r
}
