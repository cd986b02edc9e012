// Package jsonfile реализует хранилище записей о подписках в JSON-файлах,
// секционированных по календарному году даты списания: один файл
// subscriptions_<год>.json на год, тело файла — {"subscriptions": [...]}.
// Формат совместим с файлами, которые создавала предыдущая версия приложения.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-calendar/internal/models"
)

// ErrNotFound возвращается при обновлении или удалении несуществующей записи.
var ErrNotFound = errors.New("subscription not found")

const (
	filePrefix = "subscriptions_"
	fileSuffix = ".json"
)

// Storage хранилище записей поверх каталога с годовыми JSON-файлами.
// Мутации защищены мьютексом: запись файла — это чтение и полная перезапись
// секции года, параллельные записи молча теряли бы обновления друг друга.
type Storage struct {
	dir string
	mu  sync.Mutex
}

// yearFile обёртка тела годового файла.
type yearFile struct {
	Subscriptions []models.Record `json:"subscriptions"`
}

// New создает хранилище в каталоге dir, создавая каталог при необходимости.
func New(dir string) (*Storage, error) {
	const op = "storage.jsonfile.New"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{dir: dir}, nil
}

func (s *Storage) yearPath(year string) string {
	return filepath.Join(s.dir, filePrefix+year+fileSuffix)
}

// yearFromDate извлекает год из даты формата 2006-01-02.
func yearFromDate(date string) string {
	if i := strings.IndexByte(date, '-'); i > 0 {
		return date[:i]
	}
	return date
}

// readYear читает секцию года; отсутствующий файл равнозначен пустой секции.
func (s *Storage) readYear(year string) ([]models.Record, error) {
	content, err := os.ReadFile(s.yearPath(year))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Record{}, nil
		}
		return nil, err
	}
	var body yearFile
	if err := json.Unmarshal(content, &body); err != nil {
		return nil, err
	}
	if body.Subscriptions == nil {
		return []models.Record{}, nil
	}
	return body.Subscriptions, nil
}

// saveYear полностью перезаписывает секцию года.
func (s *Storage) saveYear(year string, records []models.Record) error {
	body, err := json.MarshalIndent(yearFile{Subscriptions: records}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.yearPath(year), body, 0o644)
}

// ReadAll возвращает записи из всех годовых секций.
func (s *Storage) ReadAll(ctx context.Context) ([]models.Record, error) {
	const op = "storage.jsonfile.ReadAll"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var years []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		years = append(years, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
	}
	sort.Strings(years)

	all := []models.Record{}
	for _, year := range years {
		records, err := s.readYear(year)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		all = append(all, records...)
	}
	return all, nil
}

// ReadYear возвращает записи одной годовой секции.
func (s *Storage) ReadYear(ctx context.Context, year string) ([]models.Record, error) {
	const op = "storage.jsonfile.ReadYear"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	records, err := s.readYear(year)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}

// Create сохраняет новую запись, назначая ей уникальный идентификатор.
// Секция выбирается по году даты списания.
func (s *Storage) Create(ctx context.Context, rec models.Record) (models.Record, error) {
	const op = "storage.jsonfile.Create"
	select {
	case <-ctx.Done():
		return models.Record{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	year := yearFromDate(rec.StartDate)
	records, err := s.readYear(year)
	if err != nil {
		return models.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	rec.ID = uuid.NewString()
	records = append(records, rec)
	if err := s.saveYear(year, records); err != nil {
		return models.Record{}, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// Update применяет частичное обновление к записи по ID и возвращает результат.
// Если год даты списания изменился, запись переносится между секциями:
// сначала удаляется из старой, затем добавляется в новую.
func (s *Storage) Update(ctx context.Context, id string, upd models.UpdateRecord) (models.Record, error) {
	const op = "storage.jsonfile.Update"
	select {
	case <-ctx.Done():
		return models.Record{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, oldYear, err := s.find(id)
	if err != nil {
		return models.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	updated := upd.Apply(*current)
	newYear := yearFromDate(updated.StartDate)

	if oldYear != newYear {
		oldRecords, err := s.readYear(oldYear)
		if err != nil {
			return models.Record{}, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.saveYear(oldYear, removeByID(oldRecords, id)); err != nil {
			return models.Record{}, fmt.Errorf("%s: %w", op, err)
		}

		newRecords, err := s.readYear(newYear)
		if err != nil {
			return models.Record{}, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.saveYear(newYear, append(newRecords, updated)); err != nil {
			return models.Record{}, fmt.Errorf("%s: %w", op, err)
		}
		return updated, nil
	}

	records, err := s.readYear(oldYear)
	if err != nil {
		return models.Record{}, fmt.Errorf("%s: %w", op, err)
	}
	for i := range records {
		if records[i].ID == id {
			records[i] = updated
			break
		}
	}
	if err := s.saveYear(oldYear, records); err != nil {
		return models.Record{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete удаляет запись по ID.
func (s *Storage) Delete(ctx context.Context, id string) error {
	const op = "storage.jsonfile.Delete"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, year, err := s.find(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	records, err := s.readYear(year)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.saveYear(year, removeByID(records, id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// find ищет запись по всем секциям и возвращает её вместе с годом секции.
func (s *Storage) find(id string) (*models.Record, string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		year := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		records, err := s.readYear(year)
		if err != nil {
			return nil, "", err
		}
		for i := range records {
			if records[i].ID == id {
				return &records[i], year, nil
			}
		}
	}
	return nil, "", ErrNotFound
}

func removeByID(records []models.Record, id string) []models.Record {
	out := records[:0]
	for _, rec := range records {
		if rec.ID != id {
			out = append(out, rec)
		}
	}
	return out
}
