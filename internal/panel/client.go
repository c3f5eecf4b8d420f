// Package panel реализует HTTP-клиент к API панели управления VPN.
// Панель является источником истины по доступам: клиент умеет постранично
// выгружать полный снимок аккаунтов, читать и заводить отдельные аккаунты,
// частично обновлять их и отзывать сессии устройств.
package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/panel-sync/internal/config"
	"github.com/magabrotheeeer/panel-sync/internal/models"
)

// ErrAccountNotFound возвращается, когда панель не знает такой uuid.
var ErrAccountNotFound = errors.New("panel account not found")

const defaultPageSize = 250

// Client — HTTP-клиент к REST API панели.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
	log        *slog.Logger
}

// New создаёт клиент панели. Размер страницы и таймаут берутся из конфига,
// нулевые значения заменяются умолчаниями.
func New(cfg config.Panel, log *slog.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	timeout := cfg.TimeoutPanel
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.AddressPanel, "/"),
		token:      cfg.Token,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With(slog.String("component", "panel_client")),
	}
}

// doAuthorized выполняет запрос к API панели с Bearer-авторизацией.
func (c *Client) doAuthorized(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("сериализация тела запроса: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// decodeResponse декодирует JSON ответ панели в target.
func decodeResponse(resp *http.Response, target any) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrAccountNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("панель вернула статус %d: %s", resp.StatusCode, string(body))
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("декодирование ответа панели: %w", err)
		}
	}

	return nil
}

// checkResponse проверяет статус ответа для запросов без тела ответа.
func checkResponse(resp *http.Response, expected ...int) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrAccountNotFound
	}
	for _, status := range expected {
		if resp.StatusCode == status {
			return nil
		}
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("панель вернула статус %d: %s", resp.StatusCode, string(body))
}

// ListUsers постранично выгружает полный снимок аккаунтов панели.
// Страницы читаются до первой неполной; сообщаемый панелью total служит
// только вторичной границей, так как может меняться по ходу выгрузки.
// Повторных попыток нет: любой сбой транспорта прерывает выгрузку.
func (c *Client) ListUsers(ctx context.Context) ([]models.RemoteAccount, error) {
	const op = "panel.ListUsers"

	var all []models.RemoteAccount
	start := 0
	for {
		path := fmt.Sprintf("/api/users?start=%d&size=%d", start, c.pageSize)
		resp, err := c.doAuthorized(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		var page listUsersResponse
		if err := decodeResponse(resp, &page); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		for _, dto := range page.Response.Users {
			all = append(all, dto.toModel())
		}
		c.log.Debug("страница снимка панели получена",
			slog.Int("start", start),
			slog.Int("page_len", len(page.Response.Users)),
			slog.Int("total", page.Response.Total))

		if len(page.Response.Users) < c.pageSize {
			break
		}
		start += len(page.Response.Users)
		if page.Response.Total > 0 && start >= page.Response.Total {
			break
		}
	}
	return all, nil
}

// GetUser возвращает один аккаунт панели по uuid.
func (c *Client) GetUser(ctx context.Context, uuid string) (*models.RemoteAccount, error) {
	const op = "panel.GetUser"

	resp, err := c.doAuthorized(ctx, http.MethodGet, "/api/users/"+uuid, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user userResponse
	if err := decodeResponse(resp, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	account := user.Response.toModel()
	return &account, nil
}

// CreateUser заводит аккаунт на панели и возвращает его с заполненными
// панелью идентификаторами и ссылками.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*models.RemoteAccount, error) {
	const op = "panel.CreateUser"

	resp, err := c.doAuthorized(ctx, http.MethodPost, "/api/users", req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user userResponse
	if err := decodeResponse(resp, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	account := user.Response.toModel()
	return &account, nil
}

// UpdateUser частично обновляет аккаунт панели по uuid.
func (c *Client) UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.RemoteAccount, error) {
	const op = "panel.UpdateUser"

	resp, err := c.doAuthorized(ctx, http.MethodPatch, "/api/users", req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user userResponse
	if err := decodeResponse(resp, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	account := user.Response.toModel()
	return &account, nil
}

// RevokeUser отзывает сессии и устройства аккаунта панели.
func (c *Client) RevokeUser(ctx context.Context, uuid string) error {
	const op = "panel.RevokeUser"

	resp, err := c.doAuthorized(ctx, http.MethodPost, "/api/users/"+uuid+"/actions/revoke", nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := checkResponse(resp, http.StatusOK, http.StatusNoContent); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
