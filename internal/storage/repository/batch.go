package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/panel-sync/internal/models"
)

// Batch объединяет записи нескольких записей снимка панели в одну транзакцию.
// Каждая запись оборачивается в savepoint: её сбой откатывается точечно,
// не теряя уже применённые записи пакета. Commit фиксирует пакет целиком.
type Batch struct {
	tx  *sql.Tx
	seq int
	cur string
}

// BeginBatch открывает транзакцию пакета.
func (s *Storage) BeginBatch(ctx context.Context) (*Batch, error) {
	const op = "storage.BeginBatch"
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Batch{tx: tx}, nil
}

// Commit фиксирует все записи пакета.
func (b *Batch) Commit() error {
	const op = "storage.Batch.Commit"
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Rollback откатывает пакет целиком.
func (b *Batch) Rollback() error {
	const op = "storage.Batch.Rollback"
	if err := b.tx.Rollback(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// BeginRecord ставит savepoint перед обработкой очередной записи.
func (b *Batch) BeginRecord(ctx context.Context) error {
	const op = "storage.Batch.BeginRecord"
	b.seq++
	b.cur = fmt.Sprintf("sp_%d", b.seq)
	if _, err := b.tx.ExecContext(ctx, "SAVEPOINT "+b.cur); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReleaseRecord снимает savepoint успешно обработанной записи.
func (b *Batch) ReleaseRecord(ctx context.Context) error {
	const op = "storage.Batch.ReleaseRecord"
	if _, err := b.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+b.cur); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RollbackRecord откатывает изменения текущей записи до её savepoint.
// Работает и в прерванной транзакции, возвращая её в рабочее состояние.
func (b *Batch) RollbackRecord(ctx context.Context) error {
	const op = "storage.Batch.RollbackRecord"
	if _, err := b.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+b.cur); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateUserWithSubscription вставляет пользователя вместе с подпиской,
// возвращает uid пользователя и id подписки.
func (b *Batch) CreateUserWithSubscription(ctx context.Context, user *models.User) (string, int, error) {
	const op = "storage.Batch.CreateUserWithSubscription"
	select {
	case <-ctx.Done():
		return "", 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (telegram_id, username, panel_uuid)
			  VALUES ($1, $2, $3)
			  RETURNING uid`
	if err := b.tx.QueryRowContext(ctx, query,
		user.TelegramID, user.Username, user.PanelUUID).Scan(&newUID); err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	sub := user.Subscription
	squads, err := marshalSquads(sub.ConnectedSquads)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	var newID int
	query = `INSERT INTO subscriptions (user_uid, status, end_date, traffic_limit_gb,
			      traffic_used_gb, device_limit, connected_squads, short_uuid,
			      subscription_url, crypto_link, is_trial, autopay_enabled)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id`
	if err := b.tx.QueryRowContext(ctx, query,
		newUID, sub.Status, sub.EndDate, sub.TrafficLimitGB, sub.TrafficUsedGB,
		sub.DeviceLimit, squads, sub.ShortUUID, sub.SubscriptionURL, sub.CryptoLink,
		sub.IsTrial, sub.AutopayEnabled).Scan(&newID); err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	return newUID, newID, nil
}

// CreateSubscription вставляет подписку для уже существующего пользователя.
func (b *Batch) CreateSubscription(ctx context.Context, sub *models.Subscription) (int, error) {
	const op = "storage.Batch.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	squads, err := marshalSquads(sub.ConnectedSquads)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	var newID int
	query := `INSERT INTO subscriptions (user_uid, status, end_date, traffic_limit_gb,
			      traffic_used_gb, device_limit, connected_squads, short_uuid,
			      subscription_url, crypto_link, is_trial, autopay_enabled)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id`
	if err := b.tx.QueryRowContext(ctx, query,
		sub.UserUID, sub.Status, sub.EndDate, sub.TrafficLimitGB, sub.TrafficUsedGB,
		sub.DeviceLimit, squads, sub.ShortUUID, sub.SubscriptionURL, sub.CryptoLink,
		sub.IsTrial, sub.AutopayEnabled).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateSubscriptionMirror обновляет зеркальные поля подписки.
// Локальные поля is_trial и autopay_enabled не трогает.
func (b *Batch) UpdateSubscriptionMirror(ctx context.Context, sub *models.Subscription) error {
	const op = "storage.Batch.UpdateSubscriptionMirror"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	squads, err := marshalSquads(sub.ConnectedSquads)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE subscriptions
			  SET status = $1, end_date = $2, traffic_limit_gb = $3, traffic_used_gb = $4,
			      device_limit = $5, connected_squads = $6, short_uuid = $7,
			      subscription_url = $8, crypto_link = $9, updated_at = now()
			  WHERE user_uid = $10`
	_, err = b.tx.ExecContext(ctx, query,
		sub.Status, sub.EndDate, sub.TrafficLimitGB, sub.TrafficUsedGB, sub.DeviceLimit,
		squads, sub.ShortUUID, sub.SubscriptionURL, sub.CryptoLink, sub.UserUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetPanelUUID записывает или очищает привязку пользователя к аккаунту панели.
func (b *Batch) SetPanelUUID(ctx context.Context, userUID string, panelUUID *string) error {
	const op = "storage.Batch.SetPanelUUID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET panel_uuid = $1, updated_at = now()
			  WHERE uid = $2`
	_, err := b.tx.ExecContext(ctx, query, panelUUID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeactivateSubscription обнуляет поля доступа подписки, не трогая
// баланс пользователя и историю платежей.
func (b *Batch) DeactivateSubscription(ctx context.Context, userUID string) error {
	const op = "storage.Batch.DeactivateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = 'DISABLED', traffic_limit_gb = 0, traffic_used_gb = 0,
			      device_limit = 0, connected_squads = '[]'::jsonb,
			      autopay_enabled = false, updated_at = now()
			  WHERE user_uid = $1`
	_, err := b.tx.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// marshalSquads сериализует список squad uuid в jsonb, nil превращает в [].
func marshalSquads(squads []string) ([]byte, error) {
	if squads == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(squads)
}
