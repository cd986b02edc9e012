// Package health предоставляет обработчик проверки живости сервера.
package health

import (
	"net/http"

	"github.com/go-chi/render"
)

// New возвращает обработчик GET /health.
func New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
