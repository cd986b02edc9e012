package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-calendar/internal/models"
)

type mockRepo struct {
	ReadAllFunc  func(ctx context.Context) ([]models.Record, error)
	ReadYearFunc func(ctx context.Context, year string) ([]models.Record, error)
	CreateFunc   func(ctx context.Context, rec models.Record) (models.Record, error)
	UpdateFunc   func(ctx context.Context, id string, upd models.UpdateRecord) (models.Record, error)
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *mockRepo) ReadAll(ctx context.Context) ([]models.Record, error) {
	return m.ReadAllFunc(ctx)
}
func (m *mockRepo) ReadYear(ctx context.Context, year string) ([]models.Record, error) {
	return m.ReadYearFunc(ctx, year)
}
func (m *mockRepo) Create(ctx context.Context, rec models.Record) (models.Record, error) {
	return m.CreateFunc(ctx, rec)
}
func (m *mockRepo) Update(ctx context.Context, id string, upd models.UpdateRecord) (models.Record, error) {
	return m.UpdateFunc(ctx, id, upd)
}
func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type mockCache struct {
	GetFunc        func(key string, result any) (bool, error)
	SetFunc        func(key string, value any, expiration time.Duration) error
	InvalidateFunc func(key string) error
}

func (m *mockCache) Get(key string, result any) (bool, error) { return m.GetFunc(key, result) }
func (m *mockCache) Set(key string, value any, expiration time.Duration) error {
	return m.SetFunc(key, value, expiration)
}
func (m *mockCache) Invalidate(key string) error { return m.InvalidateFunc(key) }

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestListAll_CacheMissReadsRepo(t *testing.T) {
	want := []models.Record{{ID: "a"}, {ID: "b"}}
	var setKey string

	repo := &mockRepo{
		ReadAllFunc: func(ctx context.Context) ([]models.Record, error) { return want, nil },
	}
	cache := &mockCache{
		GetFunc: func(key string, result any) (bool, error) { return false, nil },
		SetFunc: func(key string, value any, exp time.Duration) error {
			setKey = key
			return nil
		},
	}

	svc := NewSubscriptionService(repo, cache, makeLogger())
	got, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "subscriptions:all", setKey)
}

func TestListAll_NilCacheWorks(t *testing.T) {
	repo := &mockRepo{
		ReadAllFunc: func(ctx context.Context) ([]models.Record, error) {
			return []models.Record{{ID: "a"}}, nil
		},
	}
	svc := NewSubscriptionService(repo, nil, makeLogger())
	got, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCreate(t *testing.T) {
	t.Run("defaults userId and invalidates cache", func(t *testing.T) {
		var invalidated []string
		repo := &mockRepo{
			CreateFunc: func(ctx context.Context, rec models.Record) (models.Record, error) {
				require.Equal(t, models.DefaultUserID, rec.UserID)
				rec.ID = "new-id"
				return rec, nil
			},
		}
		cache := &mockCache{
			InvalidateFunc: func(key string) error {
				invalidated = append(invalidated, key)
				return nil
			},
		}

		svc := NewSubscriptionService(repo, cache, makeLogger())
		created, err := svc.Create(context.Background(), models.DummyRecord{
			ServiceID: "netflix",
			StartDate: "2024-01-15",
			Amount:    9.99,
			Currency:  "EUR",
		})
		require.NoError(t, err)
		assert.Equal(t, "new-id", created.ID)
		assert.Contains(t, invalidated, "subscriptions:all")
	})

	t.Run("invalid date is rejected before storage", func(t *testing.T) {
		repo := &mockRepo{
			CreateFunc: func(ctx context.Context, rec models.Record) (models.Record, error) {
				t.Fatal("storage should not be called on invalid date")
				return models.Record{}, nil
			},
		}
		svc := NewSubscriptionService(repo, nil, makeLogger())
		_, err := svc.Create(context.Background(), models.DummyRecord{
			ServiceID: "netflix",
			StartDate: "15-01-2024",
			Currency:  "EUR",
		})
		require.Error(t, err)
	})
}

func TestUpdate_PropagatesRepoError(t *testing.T) {
	wantErr := errors.New("boom")
	repo := &mockRepo{
		UpdateFunc: func(ctx context.Context, id string, upd models.UpdateRecord) (models.Record, error) {
			return models.Record{}, wantErr
		},
	}
	svc := NewSubscriptionService(repo, nil, makeLogger())
	_, err := svc.Update(context.Background(), "id1", models.UpdateRecord{})
	require.ErrorIs(t, err, wantErr)
}

func TestDelete_InvalidatesCache(t *testing.T) {
	var invalidated []string
	repo := &mockRepo{
		DeleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	cache := &mockCache{
		InvalidateFunc: func(key string) error {
			invalidated = append(invalidated, key)
			return nil
		},
	}
	svc := NewSubscriptionService(repo, cache, makeLogger())
	require.NoError(t, svc.Delete(context.Background(), "id1"))
	assert.Equal(t, []string{"subscriptions:all"}, invalidated)
}
