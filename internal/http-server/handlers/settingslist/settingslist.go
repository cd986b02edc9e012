// Package settingslist предоставляет HTTP-обработчики справочников:
// валют и каталога сервисов.
package settingslist

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/response"
	"github.com/magabrotheeeer/subscription-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-calendar/internal/models"
)

// Provider определяет контракт чтения справочников.
type Provider interface {
	Currencies() ([]models.Currency, error)
	Services() ([]models.Service, error)
}

// NewCurrencies возвращает обработчик GET /api/settings/currencies.
func NewCurrencies(log *slog.Logger, provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.settingslist.NewCurrencies"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		currencies, err := provider.Currencies()
		if err != nil {
			log.Error("failed to read currencies", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read currencies"))
			return
		}
		render.JSON(w, r, currencies)
	}
}

// NewServices возвращает обработчик GET /api/settings/subscriptions — каталог
// известных сервисов для автодополнения в клиенте.
func NewServices(log *slog.Logger, provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.settingslist.NewServices"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		services, err := provider.Services()
		if err != nil {
			log.Error("failed to read services", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read services"))
			return
		}
		render.JSON(w, r, services)
	}
}
