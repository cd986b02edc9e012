// Package listyear предоставляет HTTP-обработчик чтения записей одной годовой секции.
package listyear

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/response"
	"github.com/magabrotheeeer/subscription-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-calendar/internal/models"
)

// YearLister определяет контракт чтения записей за год.
type YearLister interface {
	ListYear(ctx context.Context, year string) ([]models.Record, error)
}

// Год — строго четыре цифры, всё остальное отклоняется до обращения к хранилищу.
var yearRe = regexp.MustCompile(`^\d{4}$`)

// New возвращает обработчик GET /api/subscriptions/year/{year}.
// Для года без файла секции отдаёт пустой массив, а не 404.
func New(log *slog.Logger, lister YearLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.listyear.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		year := chi.URLParam(r, "year")
		if !yearRe.MatchString(year) {
			log.Info("invalid year", slog.String("year", year))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid year format, use YYYY"))
			return
		}

		records, err := lister.ListYear(r.Context(), year)
		if err != nil {
			log.Error("failed to read subscriptions", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read subscriptions"))
			return
		}

		log.Info("read subscriptions for year",
			slog.String("year", year),
			slog.Int("count", len(records)))
		render.JSON(w, r, records)
	}
}
