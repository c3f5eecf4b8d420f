package panel

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/panel-sync/internal/models"
)

// remoteAccountDTO — аккаунт в том виде, как его отдаёт панель.
type remoteAccountDTO struct {
	UUID                 string          `json:"uuid"`
	TelegramID           json.RawMessage `json:"telegramId"`
	Username             string          `json:"username"`
	Status               string          `json:"status"`
	ExpireAt             *time.Time      `json:"expireAt"`
	TrafficLimitBytes    int64           `json:"trafficLimitBytes"`
	UsedTrafficBytes     int64           `json:"usedTrafficBytes"`
	HWIDDeviceLimit      int             `json:"hwidDeviceLimit"`
	ShortUUID            string          `json:"shortUuid"`
	SubscriptionURL      string          `json:"subscriptionUrl"`
	CryptoLink           string          `json:"cryptoLink"`
	ActiveInternalSquads []string        `json:"activeInternalSquads"`
}

// listUsersResponse — конверт постраничной выгрузки.
type listUsersResponse struct {
	Response struct {
		Total int                `json:"total"`
		Users []remoteAccountDTO `json:"users"`
	} `json:"response"`
}

// userResponse — конверт ответа с одним аккаунтом.
type userResponse struct {
	Response remoteAccountDTO `json:"response"`
}

// CreateUserRequest — параметры заведения аккаунта на панели.
type CreateUserRequest struct {
	TelegramID           int64     `json:"telegramId"`
	Username             string    `json:"username"`
	ExpireAt             time.Time `json:"expireAt"`
	TrafficLimitBytes    int64     `json:"trafficLimitBytes"`
	HWIDDeviceLimit      int       `json:"hwidDeviceLimit"`
	ActiveInternalSquads []string  `json:"activeInternalSquads"`
}

// UpdateUserRequest — частичное обновление аккаунта: nil-поля не отправляются.
type UpdateUserRequest struct {
	UUID                 string     `json:"uuid"`
	Status               string     `json:"status,omitempty"`
	ExpireAt             *time.Time `json:"expireAt,omitempty"`
	TrafficLimitBytes    *int64     `json:"trafficLimitBytes,omitempty"`
	HWIDDeviceLimit      *int       `json:"hwidDeviceLimit,omitempty"`
	ActiveInternalSquads []string   `json:"activeInternalSquads,omitempty"`
}

// parseTelegramID терпимо разбирает telegramId: панель отдает его то числом,
// то строкой, а у части аккаунтов он отсутствует. Нечитаемое значение
// превращается в 0, такие записи потом отбрасывает дедупликация.
func parseTelegramID(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	s := strings.Trim(string(raw), `"`)
	if s == "" || s == "null" {
		return 0
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// toModel переводит ответ панели во внутреннее представление.
func (d remoteAccountDTO) toModel() models.RemoteAccount {
	account := models.RemoteAccount{
		UUID:              d.UUID,
		TelegramID:        parseTelegramID(d.TelegramID),
		Username:          d.Username,
		Status:            models.RemoteStatus(d.Status),
		TrafficLimitBytes: d.TrafficLimitBytes,
		TrafficUsedBytes:  d.UsedTrafficBytes,
		DeviceLimit:       d.HWIDDeviceLimit,
		ShortUUID:         d.ShortUUID,
		SubscriptionURL:   d.SubscriptionURL,
		CryptoLink:        d.CryptoLink,
		Squads:            d.ActiveInternalSquads,
	}
	if d.ExpireAt != nil {
		account.ExpireAt = *d.ExpireAt
	}
	return account
}
