package repository

import (
	"context"
	"fmt"
)

// DeactivateUser полностью гасит доступ пользователя в собственной транзакции:
// обнуляет поля подписки и отвязывает аккаунт панели. При purgeDependents
// дополнительно удаляет зависимые строки биллинга. Баланс не трогает.
func (s *Storage) DeactivateUser(ctx context.Context, userUID string, purgeDependents bool) error {
	const op = "storage.DeactivateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE subscriptions
			  SET status = 'DISABLED', traffic_limit_gb = 0, traffic_used_gb = 0,
			      device_limit = 0, connected_squads = '[]'::jsonb,
			      autopay_enabled = false, updated_at = now()
			  WHERE user_uid = $1`
	if _, err = tx.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query = `UPDATE users
			 SET panel_uuid = NULL, updated_at = now()
			 WHERE uid = $1`
	if _, err = tx.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if purgeDependents {
		for _, q := range []string{
			`DELETE FROM promo_activations WHERE user_uid = $1`,
			`DELETE FROM referrals WHERE referrer_uid = $1 OR referee_uid = $1`,
			`DELETE FROM transactions WHERE user_uid = $1`,
		} {
			if _, err = tx.ExecContext(ctx, q, userUID); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscriptionStatus выставляет статус подписки одиночным запросом.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, userUID, status string) error {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1, updated_at = now()
			  WHERE user_uid = $2`
	_, err := s.DB.ExecContext(ctx, query, status, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// InsertEmptySubscription создаёт пустую подписку со статусом NONE
// для пользователя, у которого строка подписки отсутствует.
func (s *Storage) InsertEmptySubscription(ctx context.Context, userUID string) (int, error) {
	const op = "storage.InsertEmptySubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO subscriptions (user_uid, status)
			  VALUES ($1, 'NONE')
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// NormalizeSubscription поднимает отрицательные числовые поля до нуля
// и заменяет NULL-коллекции пустым массивом.
func (s *Storage) NormalizeSubscription(ctx context.Context, userUID string) error {
	const op = "storage.NormalizeSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET traffic_limit_gb = GREATEST(traffic_limit_gb, 0),
			      traffic_used_gb = GREATEST(traffic_used_gb, 0),
			      device_limit = GREATEST(device_limit, 0),
			      connected_squads = COALESCE(connected_squads, '[]'::jsonb),
			      updated_at = now()
			  WHERE user_uid = $1`
	_, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscriptionLinks восстанавливает ссылочные поля подписки
// по данным, перечитанным из панели.
func (s *Storage) UpdateSubscriptionLinks(ctx context.Context, userUID, shortUUID, subscriptionURL, cryptoLink string) error {
	const op = "storage.UpdateSubscriptionLinks"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET short_uuid = $1, subscription_url = $2, crypto_link = $3, updated_at = now()
			  WHERE user_uid = $4`
	_, err := s.DB.ExecContext(ctx, query, shortUUID, subscriptionURL, cryptoLink, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
