package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-calendar/internal/storage/jsonfile"
)

type mockRemover struct {
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockRemover) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

func makeLogger() *slog.Logger { return slog.New(discardHandler{}) }

func newRouter(handler http.HandlerFunc) *chi.Mux {
	router := chi.NewRouter()
	router.Delete("/api/subscriptions/{id}", handler)
	return router
}

func TestRemoveHandler(t *testing.T) {
	var gotID string
	router := newRouter(New(makeLogger(), &mockRemover{
		deleteFunc: func(ctx context.Context, id string) error {
			gotID = id
			return nil
		},
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/subscriptions/abc", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "abc", gotID)
	assert.Empty(t, rr.Body.String())
}

func TestRemoveHandler_NotFound(t *testing.T) {
	router := newRouter(New(makeLogger(), &mockRemover{
		deleteFunc: func(ctx context.Context, id string) error {
			return jsonfile.ErrNotFound
		},
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/subscriptions/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"subscription not found"}`, rr.Body.String())
}

func TestRemoveHandler_StorageError(t *testing.T) {
	router := newRouter(New(makeLogger(), &mockRemover{
		deleteFunc: func(ctx context.Context, id string) error {
			return errors.New("disk gone")
		},
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/subscriptions/abc", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"failed to delete subscription"}`, rr.Body.String())
}
