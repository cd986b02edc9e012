// Package apiclient реализует HTTP-клиент REST API подписок.
// Клиент удовлетворяет тому же контракту, что и хранилище, поэтому
// поверх него работают те же вычисления, что и на сервере.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/subscription-calendar/internal/http-server/response"
	"github.com/magabrotheeeer/subscription-calendar/internal/models"
	"github.com/magabrotheeeer/subscription-calendar/internal/storage/jsonfile"
)

// Client ходит в REST API подписок по HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для сервера по адресу baseURL, например "http://localhost:3001".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// apiError извлекает сообщение из тела {"error": "..."}; на нечитаемом теле
// остаётся только статус.
func apiError(op string, resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, jsonfile.ErrNotFound)
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var errResp response.ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("%s: %s: %s", op, resp.Status, errResp.Error)
	}
	return fmt.Errorf("%s: unexpected status %s", op, resp.Status)
}

func (c *Client) do(op string, req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return apiError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadAll возвращает все записи со всех годовых секций сервера.
func (c *Client) ReadAll(ctx context.Context) ([]models.Record, error) {
	const op = "apiclient.ReadAll"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/subscriptions", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var records []models.Record
	if err := c.do(op, req, http.StatusOK, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadYear возвращает записи одной годовой секции.
func (c *Client) ReadYear(ctx context.Context, year string) ([]models.Record, error) {
	const op = "apiclient.ReadYear"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/subscriptions/year/"+year, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var records []models.Record
	if err := c.do(op, req, http.StatusOK, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Create создаёт запись и возвращает её с назначенным сервером ID.
func (c *Client) Create(ctx context.Context, rec models.Record) (models.Record, error) {
	const op = "apiclient.Create"
	req, err := c.newRequest(ctx, http.MethodPost, "/api/subscriptions", rec)
	if err != nil {
		return models.Record{}, fmt.Errorf("%s: %w", op, err)
	}
	var created models.Record
	if err := c.do(op, req, http.StatusCreated, &created); err != nil {
		return models.Record{}, err
	}
	return created, nil
}

// Update применяет частичное обновление. Отсутствующая запись
// возвращается как jsonfile.ErrNotFound.
func (c *Client) Update(ctx context.Context, id string, upd models.UpdateRecord) (models.Record, error) {
	const op = "apiclient.Update"
	req, err := c.newRequest(ctx, http.MethodPatch, "/api/subscriptions/"+id, upd)
	if err != nil {
		return models.Record{}, fmt.Errorf("%s: %w", op, err)
	}
	var updated models.Record
	if err := c.do(op, req, http.StatusOK, &updated); err != nil {
		return models.Record{}, err
	}
	return updated, nil
}

// Delete удаляет запись по ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	const op = "apiclient.Delete"
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/subscriptions/"+id, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return c.do(op, req, http.StatusNoContent, nil)
}

// Currencies возвращает справочник валют сервера.
func (c *Client) Currencies(ctx context.Context) ([]models.Currency, error) {
	const op = "apiclient.Currencies"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/settings/currencies", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var currencies []models.Currency
	if err := c.do(op, req, http.StatusOK, &currencies); err != nil {
		return nil, err
	}
	return currencies, nil
}

// Services возвращает каталог сервисов сервера.
func (c *Client) Services(ctx context.Context) ([]models.Service, error) {
	const op = "apiclient.Services"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/settings/subscriptions", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var services []models.Service
	if err := c.do(op, req, http.StatusOK, &services); err != nil {
		return nil, err
	}
	return services, nil
}
