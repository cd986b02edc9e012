// Package create предоставляет HTTP-обработчик создания новой записи о подписке.
package create

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/response"
	"github.com/magabrotheeeer/subscription-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-calendar/internal/models"
)

// Creator определяет контракт создания записи.
type Creator interface {
	Create(ctx context.Context, req models.DummyRecord) (models.Record, error)
}

// New возвращает обработчик POST /api/subscriptions.
// Успешное создание отвечает 201 и телом созданной записи.
func New(log *slog.Logger, creator Creator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req models.DummyRecord
		err := render.DecodeJSON(r.Body, &req)
		if errors.Is(err, io.EOF) {
			log.Error("request body is empty")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("empty request"))
			return
		}
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}
		log.Info("request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		created, err := creator.Create(r.Context(), req)
		if err != nil {
			log.Error("failed to create subscription", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create subscription"))
			return
		}

		log.Info("created subscription", slog.String("id", created.ID))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}
