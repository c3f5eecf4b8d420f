package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/panel-sync/internal/config"
	"github.com/magabrotheeeer/panel-sync/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(serverURL string, pageSize int) *Client {
	return New(config.Panel{
		AddressPanel: serverURL,
		Token:        "test-token",
		PageSize:     pageSize,
		TimeoutPanel: 5 * time.Second,
	}, discardLogger())
}

func writeListPage(w http.ResponseWriter, total int, users ...map[string]any) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"response": map[string]any{
			"total": total,
			"users": users,
		},
	})
}

func TestClient_ListUsers_StopsOnShortPage(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		requests = append(requests, r.URL.RawQuery)

		switch r.URL.Query().Get("start") {
		case "0":
			writeListPage(w, 3,
				map[string]any{"uuid": "uuid-1", "telegramId": 42, "status": "ACTIVE",
					"expireAt": "2025-06-01T00:00:00Z", "trafficLimitBytes": 1073741824},
				map[string]any{"uuid": "uuid-2", "telegramId": "77", "status": "TRIAL"},
			)
		case "2":
			// Неполная страница завершает выгрузку
			writeListPage(w, 3,
				map[string]any{"uuid": "uuid-3", "status": "DISABLED"},
			)
		default:
			t.Errorf("unexpected start: %s", r.URL.RawQuery)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2)
	accounts, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, []string{"start=0&size=2", "start=2&size=2"}, requests)

	// Порядок страниц сохранен
	assert.Equal(t, "uuid-1", accounts[0].UUID)
	assert.Equal(t, "uuid-2", accounts[1].UUID)
	assert.Equal(t, "uuid-3", accounts[2].UUID)

	// telegramId разбирается и как число, и как строка, отсутствие дает 0
	assert.Equal(t, int64(42), accounts[0].TelegramID)
	assert.Equal(t, int64(77), accounts[1].TelegramID)
	assert.Zero(t, accounts[2].TelegramID)

	assert.Equal(t, models.RemoteStatusActive, accounts[0].Status)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), accounts[0].ExpireAt)
	assert.Equal(t, int64(1073741824), accounts[0].TrafficLimitBytes)
	assert.True(t, accounts[2].ExpireAt.IsZero())
}

func TestClient_ListUsers_TotalAsSecondaryBound(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		start := r.URL.Query().Get("start")
		// Сервер всегда отдает полную страницу, ограничивает только total
		writeListPage(w, 4,
			map[string]any{"uuid": "uuid-" + start + "-a", "telegramId": 1},
			map[string]any{"uuid": "uuid-" + start + "-b", "telegramId": 2},
		)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2)
	accounts, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 4)
	assert.Equal(t, 2, calls)
}

func TestClient_ListUsers_TransportFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, "upstream down")
			return
		}
		writeListPage(w, 10,
			map[string]any{"uuid": "uuid-a", "telegramId": 1},
			map[string]any{"uuid": "uuid-b", "telegramId": 2},
		)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2)
	accounts, err := client.ListUsers(context.Background())
	require.Error(t, err)
	assert.Nil(t, accounts)
	assert.Contains(t, err.Error(), "panel.ListUsers")
	assert.Contains(t, err.Error(), "502")
}

func TestClient_GetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/known-uuid":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"response": map[string]any{
					"uuid":            "known-uuid",
					"telegramId":      42,
					"status":          "ACTIVE",
					"shortUuid":       "sh0rt",
					"subscriptionUrl": "https://sub.example/sh0rt",
					"cryptoLink":      "https://pay.example/sh0rt",
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 10)

	account, err := client.GetUser(context.Background(), "known-uuid")
	require.NoError(t, err)
	assert.Equal(t, "known-uuid", account.UUID)
	assert.Equal(t, "sh0rt", account.ShortUUID)
	assert.Equal(t, "https://sub.example/sh0rt", account.SubscriptionURL)

	_, err = client.GetUser(context.Background(), "missing-uuid")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestClient_CreateUser(t *testing.T) {
	expire := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(42), body["telegramId"])
		assert.Equal(t, "user_tg", body["username"])
		assert.Equal(t, []any{"squad-a"}, body["activeInternalSquads"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"uuid":            "fresh-uuid",
				"telegramId":      42,
				"status":          "ACTIVE",
				"expireAt":        expire.Format(time.RFC3339),
				"shortUuid":       "fresh",
				"subscriptionUrl": "https://sub.example/fresh",
				"cryptoLink":      "https://pay.example/fresh",
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 10)
	account, err := client.CreateUser(context.Background(), CreateUserRequest{
		TelegramID:           42,
		Username:             "user_tg",
		ExpireAt:             expire,
		TrafficLimitBytes:    1 << 30,
		HWIDDeviceLimit:      3,
		ActiveInternalSquads: []string{"squad-a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-uuid", account.UUID)
	assert.Equal(t, "fresh", account.ShortUUID)
	assert.Equal(t, expire, account.ExpireAt)
}

func TestClient_UpdateUser_SendsOnlyChangedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/users", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "target-uuid", body["uuid"])
		assert.Equal(t, "DISABLED", body["status"])
		// Неустановленные поля частичного обновления не отправляются
		assert.NotContains(t, body, "expireAt")
		assert.NotContains(t, body, "trafficLimitBytes")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"uuid":       "target-uuid",
				"telegramId": 42,
				"status":     "DISABLED",
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 10)
	account, err := client.UpdateUser(context.Background(), UpdateUserRequest{
		UUID:   "target-uuid",
		Status: "DISABLED",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RemoteStatusDisabled, account.Status)
}

func TestClient_RevokeUser(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
		wantIs     error
	}{
		{name: "ok 200", statusCode: http.StatusOK},
		{name: "ok 204", statusCode: http.StatusNoContent},
		{name: "account missing", statusCode: http.StatusNotFound, wantErr: true, wantIs: ErrAccountNotFound},
		{name: "server error", statusCode: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/api/users/some-uuid/actions/revoke", r.URL.Path)
				w.WriteHeader(tt.statusCode)
			}))
			defer srv.Close()

			client := newTestClient(srv.URL, 10)
			err := client.RevokeUser(context.Background(), "some-uuid")
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantIs != nil {
					assert.ErrorIs(t, err, tt.wantIs)
				}
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseTelegramID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{name: "number", raw: `12345`, want: 12345},
		{name: "quoted number", raw: `"12345"`, want: 12345},
		{name: "null", raw: `null`, want: 0},
		{name: "empty string", raw: `""`, want: 0},
		{name: "garbage", raw: `"not-a-number"`, want: 0},
		{name: "missing", raw: ``, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw json.RawMessage
			if tt.raw != "" {
				raw = json.RawMessage(tt.raw)
			}
			assert.Equal(t, tt.want, parseTelegramID(raw))
		})
	}
}
