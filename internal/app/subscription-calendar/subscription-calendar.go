// Package subscriptioncalendar собирает сервер календаря подписок:
// файловое хранилище, справочники, кеш, HTTP-сервер с веб-клиентом.
package subscriptioncalendar

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/subscription-calendar/internal/cache"
	"github.com/magabrotheeeer/subscription-calendar/internal/config"
	services "github.com/magabrotheeeer/subscription-calendar/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-calendar/internal/settings"
	"github.com/magabrotheeeer/subscription-calendar/internal/storage/jsonfile"
)

// App держит собранный HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
}

// New создаёт приложение по конфигурации. Кеш подключается только если
// задан адрес Redis, без него чтение всегда идёт в файлы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := jsonfile.New(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	var serviceCache services.Cache
	if cfg.CacheEnabled() {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		serviceCache = redisCache
	}

	subscriptionService := services.NewSubscriptionService(db, serviceCache, logger)
	settingsProvider := settings.New(cfg.Storage.SettingsDir)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, subscriptionService, settingsProvider)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
	}, nil
}

// Run запускает сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}
