// Package list предоставляет HTTP-обработчик для получения всех записей о подписках.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/response"
	"github.com/magabrotheeeer/subscription-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-calendar/internal/models"
)

// AllLister определяет контракт чтения всех записей.
type AllLister interface {
	ListAll(ctx context.Context) ([]models.Record, error)
}

// New возвращает обработчик GET /api/subscriptions: отдаёт массив записей
// из всех годовых секций без конверта.
func New(log *slog.Logger, lister AllLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		records, err := lister.ListAll(r.Context())
		if err != nil {
			log.Error("failed to read subscriptions", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read subscriptions"))
			return
		}

		log.Info("read subscriptions", slog.Int("count", len(records)))
		render.JSON(w, r, records)
	}
}
