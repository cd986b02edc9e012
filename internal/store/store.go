// Package store реализует клиентскую модель записей: коллекция в памяти,
// производные проекции для календаря и сводок, пять операций изменения.
// Все изменения идут через очередь записи и попадают в память только
// после успешного сохранения.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/magabrotheeeer/subscription-calendar/internal/lib/series"
	"github.com/magabrotheeeer/subscription-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-calendar/internal/models"
	"github.com/magabrotheeeer/subscription-calendar/internal/storage/jsonfile"
	"github.com/magabrotheeeer/subscription-calendar/internal/store/serializer"
)

// OtherCategory категория для сервисов, не найденных в каталоге.
const OtherCategory = "Other"

// Repository описывает персистентный слой записей. Ему удовлетворяют
// и файловое хранилище, и HTTP-клиент API.
type Repository interface {
	ReadAll(ctx context.Context) ([]models.Record, error)
	Create(ctx context.Context, rec models.Record) (models.Record, error)
	Update(ctx context.Context, id string, upd models.UpdateRecord) (models.Record, error)
	Delete(ctx context.Context, id string) error
}

// CategorySum сумма списаний одной категории за месяц.
type CategorySum struct {
	Category string
	Amount   float64
}

// Store хранит записи в памяти и применяет изменения строго по очереди.
type Store struct {
	repo  Repository
	queue *serializer.Serializer
	log   *slog.Logger

	mu      sync.RWMutex
	records []models.Record
	lastErr error
}

// New создаёт пустой Store поверх репозитория. Перед чтением проекций
// нужно выполнить LoadAll.
func New(repo Repository, queue *serializer.Serializer, log *slog.Logger) *Store {
	return &Store{repo: repo, queue: queue, log: log}
}

// LoadAll заменяет коллекцию в памяти полным набором записей из репозитория.
// Ошибка загрузки сохраняется в LastErr и возвращается; коллекция при этом
// не трогается.
func (s *Store) LoadAll(ctx context.Context) error {
	const op = "store.LoadAll"

	records, err := s.repo.ReadAll(ctx)
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		s.setErr(err)
		s.log.Error("failed to load records", sl.Err(err))
		return err
	}

	s.mu.Lock()
	s.records = records
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// LastErr возвращает ошибку последней неудачной операции или nil.
func (s *Store) LastErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Records возвращает копию текущей коллекции.
func (s *Store) Records() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out
}

// AddOne сохраняет одну запись и добавляет её в память с назначенным ID.
func (s *Store) AddOne(ctx context.Context, rec models.Record) (models.Record, error) {
	const op = "store.AddOne"

	var created models.Record
	err := s.queue.Do(func() error {
		var err error
		created, err = s.repo.Create(ctx, rec)
		return err
	})
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		s.setErr(err)
		return models.Record{}, err
	}

	s.mu.Lock()
	s.records = append(s.records, created)
	s.lastErr = nil
	s.mu.Unlock()
	return created, nil
}

// AddSeries создаёт серию из months ежемесячных записей, начиная с даты base.
// Записи сохраняются строго по одной; в память вся серия попадает разом после
// завершения. При ошибке на середине уже сохранённые записи остаются
// и в хранилище, и в памяти.
func (s *Store) AddSeries(ctx context.Context, base models.Record, months int) ([]models.Record, error) {
	const op = "store.AddSeries"

	dates, err := series.DateStrings(base.StartDate, months)
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		s.setErr(err)
		return nil, err
	}

	monthly := true
	created := make([]models.Record, 0, len(dates))
	err = s.queue.Do(func() error {
		for _, date := range dates {
			rec := base
			rec.StartDate = date
			rec.Monthly = &monthly

			saved, err := s.repo.Create(ctx, rec)
			if err != nil {
				return err
			}
			created = append(created, saved)
		}
		return nil
	})

	s.mu.Lock()
	s.records = append(s.records, created...)
	if err != nil {
		s.lastErr = fmt.Errorf("%s: %w", op, err)
	} else {
		s.lastErr = nil
	}
	s.mu.Unlock()

	if err != nil {
		return created, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// UpdateOne применяет частичное обновление и заменяет запись в памяти.
func (s *Store) UpdateOne(ctx context.Context, id string, upd models.UpdateRecord) (models.Record, error) {
	const op = "store.UpdateOne"

	var updated models.Record
	err := s.queue.Do(func() error {
		var err error
		updated, err = s.repo.Update(ctx, id, upd)
		return err
	})
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		s.setErr(err)
		return models.Record{}, err
	}

	s.mu.Lock()
	s.replace(updated)
	s.lastErr = nil
	s.mu.Unlock()
	return updated, nil
}

// ConvertToSeries превращает одиночную запись в серию: обновляет её
// (monthly=true плюс upd), затем досоздаёт остальные месяцы серии,
// пропуская даты, на которых у того же сервиса запись уже есть.
// Возвращает обновлённую запись и все созданные.
func (s *Store) ConvertToSeries(ctx context.Context, id string, upd models.UpdateRecord, months int) (models.Record, []models.Record, error) {
	const op = "store.ConvertToSeries"

	monthly := true
	upd.Monthly = &monthly

	var updated models.Record
	created := make([]models.Record, 0, months)
	err := s.queue.Do(func() error {
		var err error
		updated, err = s.repo.Update(ctx, id, upd)
		if err != nil {
			return err
		}

		s.mu.RLock()
		taken := s.datesTaken(updated.ServiceID)
		s.mu.RUnlock()

		dates, err := series.DateStrings(updated.StartDate, months)
		if err != nil {
			return err
		}
		// Первая дата серии — сама обновлённая запись.
		for _, date := range dates[1:] {
			if taken[date] {
				continue
			}
			rec := models.Record{
				UserID:    updated.UserID,
				ServiceID: updated.ServiceID,
				StartDate: date,
				Amount:    updated.Amount,
				Currency:  updated.Currency,
				Monthly:   &monthly,
			}
			saved, err := s.repo.Create(ctx, rec)
			if err != nil {
				return err
			}
			created = append(created, saved)
		}
		return nil
	})

	s.mu.Lock()
	if updated.ID != "" {
		s.replace(updated)
	}
	s.records = append(s.records, created...)
	if err != nil {
		s.lastErr = fmt.Errorf("%s: %w", op, err)
	} else {
		s.lastErr = nil
	}
	s.mu.Unlock()

	if err != nil {
		return updated, created, fmt.Errorf("%s: %w", op, err)
	}
	return updated, created, nil
}

// DeleteOne удаляет ровно одну запись.
func (s *Store) DeleteOne(ctx context.Context, id string) error {
	const op = "store.DeleteOne"

	err := s.queue.Do(func() error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	s.remove(map[string]bool{id: true})
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// DeleteSeries удаляет серию, к которой принадлежит запись id: участники
// определяются по совпадающим атрибутам и вычисленным датам серии, сама
// целевая запись удаляется всегда. Ушедшие с расписания соседние записи
// серией не считаются и остаются.
func (s *Store) DeleteSeries(ctx context.Context, id string) (int, error) {
	const op = "store.DeleteSeries"

	s.mu.RLock()
	var target *models.Record
	pool := make([]models.Record, len(s.records))
	copy(pool, s.records)
	s.mu.RUnlock()

	for i := range pool {
		if pool[i].ID == id {
			target = &pool[i]
			break
		}
	}
	if target == nil {
		err := fmt.Errorf("%s: %w", op, jsonfile.ErrNotFound)
		s.setErr(err)
		return 0, err
	}

	ids := series.MatchMembers(*target, pool)

	deleted := make(map[string]bool, len(ids))
	err := s.queue.Do(func() error {
		for _, memberID := range ids {
			if err := s.repo.Delete(ctx, memberID); err != nil {
				return err
			}
			deleted[memberID] = true
		}
		return nil
	})

	s.mu.Lock()
	s.remove(deleted)
	if err != nil {
		s.lastErr = fmt.Errorf("%s: %w", op, err)
	} else {
		s.lastErr = nil
	}
	s.mu.Unlock()

	if err != nil {
		return len(deleted), fmt.Errorf("%s: %w", op, err)
	}
	return len(deleted), nil
}

// IsMonthly возвращает признак ежемесячности записи: явно сохранённый,
// а для записей без признака — выведенный из соседних записей коллекции.
func (s *Store) IsMonthly(rec models.Record) bool {
	if rec.Monthly != nil {
		return *rec.Monthly
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return series.InferMonthly(rec, s.records)
}

// MarkedDates возвращает множество дат, на которые есть хотя бы одна запись.
func (s *Store) MarkedDates() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.records))
	for _, rec := range s.records {
		out[rec.StartDate] = struct{}{}
	}
	return out
}

// MonthlyTotal возвращает сумму списаний выбранной валюты за месяц,
// отформатированную с символом валюты: "29.97 $".
// Нечисловые суммы в расчёт не входят.
func (s *Store) MonthlyTotal(year int, month int, currency, symbol string) string {
	prefix := fmt.Sprintf("%04d-%02d", year, month)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, rec := range s.records {
		if rec.Currency != currency || !strings.HasPrefix(rec.StartDate, prefix) {
			continue
		}
		if math.IsNaN(rec.Amount) || math.IsInf(rec.Amount, 0) {
			continue
		}
		total += rec.Amount
	}
	return fmt.Sprintf("%.2f %s", total, symbol)
}

// PerCategory возвращает суммы того же месяца и валюты, сгруппированные
// по категориям каталога сервисов, по убыванию суммы. Сервисы без
// категории попадают в "Other".
func (s *Store) PerCategory(year int, month int, currency string, categories map[string]string) []CategorySum {
	prefix := fmt.Sprintf("%04d-%02d", year, month)

	s.mu.RLock()
	sums := make(map[string]float64)
	for _, rec := range s.records {
		if rec.Currency != currency || !strings.HasPrefix(rec.StartDate, prefix) {
			continue
		}
		if math.IsNaN(rec.Amount) || math.IsInf(rec.Amount, 0) {
			continue
		}
		category := categories[rec.ServiceID]
		if category == "" {
			category = OtherCategory
		}
		sums[category] += rec.Amount
	}
	s.mu.RUnlock()

	out := make([]CategorySum, 0, len(sums))
	for category, amount := range sums {
		out = append(out, CategorySum{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// replace заменяет запись с тем же ID; вызывается под s.mu.
func (s *Store) replace(rec models.Record) {
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = rec
			return
		}
	}
	s.records = append(s.records, rec)
}

// remove удаляет записи по множеству ID; вызывается под s.mu.
func (s *Store) remove(ids map[string]bool) {
	if len(ids) == 0 {
		return
	}
	kept := s.records[:0]
	for _, rec := range s.records {
		if !ids[rec.ID] {
			kept = append(kept, rec)
		}
	}
	s.records = kept
}

// datesTaken возвращает занятые сервисом даты; вызывается под s.mu.
func (s *Store) datesTaken(serviceID string) map[string]bool {
	out := make(map[string]bool)
	for _, rec := range s.records {
		if rec.ServiceID == serviceID {
			out[rec.StartDate] = true
		}
	}
	return out
}
