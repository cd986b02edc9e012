// Package remove предоставляет HTTP-обработчик удаления записи о подписке.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/response"
	"github.com/magabrotheeeer/subscription-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-calendar/internal/storage/jsonfile"
)

// Remover определяет контракт удаления записи.
type Remover interface {
	Delete(ctx context.Context, id string) error
}

// New возвращает обработчик DELETE /api/subscriptions/{id}.
// Успешное удаление отвечает 204 без тела.
func New(log *slog.Logger, remover Remover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.remove.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		err := remover.Delete(r.Context(), id)
		if errors.Is(err, jsonfile.ErrNotFound) {
			log.Info("subscription not found", slog.String("id", id))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
			return
		}
		if err != nil {
			log.Error("failed to delete subscription", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete subscription"))
			return
		}

		log.Info("deleted subscription", slog.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
