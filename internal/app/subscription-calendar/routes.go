package subscriptioncalendar

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/handlers/create"
	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/handlers/health"
	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/handlers/list"
	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/handlers/listyear"
	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/handlers/remove"
	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/handlers/settingslist"
	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/handlers/update"
	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/middlewarectx"
	services "github.com/magabrotheeeer/subscription-calendar/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-calendar/internal/settings"
	"github.com/magabrotheeeer/subscription-calendar/web"
)

// RegisterRoutes регистрирует все маршруты приложения: REST API, справочники,
// служебные конечные точки и статику веб-клиента.
func RegisterRoutes(r chi.Router, logger *slog.Logger, subscriptionService *services.SubscriptionService, settingsProvider *settings.Settings) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, 50, 100))

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", list.New(logger, subscriptionService).ServeHTTP)
			r.Post("/", create.New(logger, subscriptionService).ServeHTTP)
			r.Get("/year/{year}", listyear.New(logger, subscriptionService).ServeHTTP)
			r.Patch("/{id}", update.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/{id}", remove.New(logger, subscriptionService).ServeHTTP)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/currencies", settingslist.NewCurrencies(logger, settingsProvider).ServeHTTP)
			r.Get("/subscriptions", settingslist.NewServices(logger, settingsProvider).ServeHTTP)
		})
	})

	r.Get("/health", health.New().ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// Веб-клиент: index с корня, ассеты из встроенной файловой системы.
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		data, err := web.StaticFS.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "client is not bundled", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	})
}
