package router

import (
	"net/http"

	"mini-bookstore/internal/auth"
	"mini-bookstore/internal/handler"
	"mini-bookstore/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Cart     *handler.CartHandler
	Payment  *handler.PaymentHandler
	Order    *handler.OrderHandler
	Report   *handler.ReportHandler
	Purchase *handler.PurchaseHandler
	Health   *handler.HealthHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, tokens *auth.TokenManager, allowedOrigin string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> Metrics -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(allowedOrigin))

	// Public endpoints
	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/reports/top-selling", h.Report.TopSelling)
		r.Post("/payments/upi/callback", h.Payment.Callback)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(tokens, logger))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.List)
				r.Post("/add", h.Cart.Add)
				r.Post("/checkout", h.Cart.Checkout)
				r.Delete("/{itemId}", h.Cart.Remove)
				r.With(middleware.RequireAdmin(logger)).Get("/admin/purchased", h.Cart.Purchased)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/upi/initiate", h.Payment.Initiate)
				r.Post("/upi/verify", h.Payment.Verify)
				r.Get("/status/{transactionId}", h.Payment.Status)
				r.Post("/refund", h.Payment.Refund)
			})

			r.Get("/orders", h.Order.List)
			r.Get("/purchases/history", h.Purchase.History)
			r.Get("/purchases/stats", h.Purchase.Stats)

			r.With(middleware.RequireAdmin(logger)).Post("/reports/top-selling/archive", h.Report.Archive)
		})
	})

	return r
}
