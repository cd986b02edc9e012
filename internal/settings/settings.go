// Package settings загружает справочники приложения из каталога data/.settings:
// список валют и каталог сервисов. Справочники только для чтения,
// отсутствующий файл равнозначен пустому справочнику.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/magabrotheeeer/subscription-calendar/internal/models"
)

const (
	currenciesFile = "currencies.json"
	servicesFile   = "subscriptions.json"
)

// Settings читает справочники из одного каталога.
type Settings struct {
	dir string
}

// New создает загрузчик справочников из каталога dir.
func New(dir string) *Settings {
	return &Settings{dir: dir}
}

func readJSONFile[T any](path string, fallback T) (T, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fallback, nil
		}
		return fallback, err
	}
	var out T
	if err := json.Unmarshal(content, &out); err != nil {
		return fallback, err
	}
	return out, nil
}

// Currencies возвращает справочник валют.
func (s *Settings) Currencies() ([]models.Currency, error) {
	const op = "settings.Currencies"
	currencies, err := readJSONFile(filepath.Join(s.dir, currenciesFile), []models.Currency{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return currencies, nil
}

// Services возвращает плоский каталог сервисов. Файл может быть записан
// как плоским списком {id, name}, так и сгруппированным по категориям.
func (s *Settings) Services() ([]models.Service, error) {
	const op = "settings.Services"
	path := filepath.Join(s.dir, servicesFile)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Service{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var flat []models.Service
	if err := json.Unmarshal(content, &flat); err == nil && len(flat) > 0 && flat[0].ID != "" {
		return flat, nil
	}

	var grouped []models.ServiceCategory
	if err := json.Unmarshal(content, &grouped); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	services := []models.Service{}
	for _, cat := range grouped {
		for _, svc := range cat.Services {
			svc.Category = cat.Category
			services = append(services, svc)
		}
	}
	return services, nil
}

// CategoryMap возвращает соответствие serviceId -> категория для сгруппированного
// каталога. Для плоского каталога соответствие пусто, сервисы без категории
// учитываются потребителем как "Other".
func (s *Settings) CategoryMap() (map[string]string, error) {
	const op = "settings.CategoryMap"
	grouped, err := readJSONFile(filepath.Join(s.dir, servicesFile), []models.ServiceCategory{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make(map[string]string)
	for _, cat := range grouped {
		if cat.Category == "" {
			continue
		}
		for _, svc := range cat.Services {
			out[svc.ID] = cat.Category
		}
	}
	return out, nil
}
