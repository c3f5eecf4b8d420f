package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/panel-sync/internal/models"
)

const userWithSubscriptionColumns = `
	u.uid, u.telegram_id, u.username, u.panel_uuid, u.balance, u.created_at, u.updated_at,
	s.id, s.status, s.end_date, s.traffic_limit_gb, s.traffic_used_gb, s.device_limit,
	s.connected_squads, s.short_uuid, s.subscription_url, s.crypto_link,
	s.is_trial, s.autopay_enabled, s.created_at, s.updated_at`

// rowScanner объединяет *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUserWithSubscription читает строку LEFT JOIN users/subscriptions.
// Подписка может отсутствовать, тогда u.Subscription == nil.
func scanUserWithSubscription(row rowScanner) (*models.User, error) {
	var u models.User
	var panelUUID sql.NullString

	var subID sql.NullInt64
	var subStatus, shortUUID, subscriptionURL, cryptoLink sql.NullString
	var endDate, subCreatedAt, subUpdatedAt sql.NullTime
	var trafficLimit, trafficUsed sql.NullFloat64
	var deviceLimit sql.NullInt64
	var squadsRaw []byte
	var isTrial, autopayEnabled sql.NullBool

	if err := row.Scan(
		&u.UID, &u.TelegramID, &u.Username, &panelUUID, &u.Balance, &u.CreatedAt, &u.UpdatedAt,
		&subID, &subStatus, &endDate, &trafficLimit, &trafficUsed, &deviceLimit,
		&squadsRaw, &shortUUID, &subscriptionURL, &cryptoLink,
		&isTrial, &autopayEnabled, &subCreatedAt, &subUpdatedAt,
	); err != nil {
		return nil, err
	}

	if panelUUID.Valid {
		u.PanelUUID = &panelUUID.String
	}

	if subID.Valid {
		sub := &models.Subscription{
			ID:              int(subID.Int64),
			UserUID:         u.UID,
			Status:          models.SubscriptionStatus(subStatus.String),
			TrafficLimitGB:  trafficLimit.Float64,
			TrafficUsedGB:   trafficUsed.Float64,
			DeviceLimit:     int(deviceLimit.Int64),
			ShortUUID:       shortUUID.String,
			SubscriptionURL: subscriptionURL.String,
			CryptoLink:      cryptoLink.String,
			IsTrial:         isTrial.Bool,
			AutopayEnabled:  autopayEnabled.Bool,
			CreatedAt:       subCreatedAt.Time,
			UpdatedAt:       subUpdatedAt.Time,
		}
		if endDate.Valid {
			sub.EndDate = &endDate.Time
		}
		if len(squadsRaw) > 0 {
			if err := json.Unmarshal(squadsRaw, &sub.ConnectedSquads); err != nil {
				return nil, fmt.Errorf("decode connected_squads: %w", err)
			}
		}
		u.Subscription = sub
	}
	return &u, nil
}

// ListUsersWithSubscriptions возвращает всех пользователей вместе с подписками
// одним запросом. Используется резолвером перед запуском синхронизации.
func (s *Storage) ListUsersWithSubscriptions(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsersWithSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userWithSubscriptionColumns + `
			  FROM users u
			  LEFT JOIN subscriptions s ON s.user_uid = u.uid
			  ORDER BY u.telegram_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUserWithSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetUserByTelegramID возвращает пользователя с подпиской по telegram id.
func (s *Storage) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	const op = "storage.GetUserByTelegramID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userWithSubscriptionColumns + `
			  FROM users u
			  LEFT JOIN subscriptions s ON s.user_uid = u.uid
			  WHERE u.telegram_id = $1`
	u, err := scanUserWithSubscription(s.DB.QueryRowContext(ctx, query, telegramID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUID возвращает пользователя с подпиской по его uid.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userWithSubscriptionColumns + `
			  FROM users u
			  LEFT JOIN subscriptions s ON s.user_uid = u.uid
			  WHERE u.uid = $1`
	u, err := scanUserWithSubscription(s.DB.QueryRowContext(ctx, query, userUID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
