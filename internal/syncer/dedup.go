// Package syncer реализует движок сверки снимка панели с локальной базой:
// дедупликацию аккаунтов, транзакционный индекс привязок uuid, бодрый
// проход создания и обновления зеркал с пакетной фиксацией, а также
// ремонтные проходы по осиротевшим привязкам и нарушенным инвариантам.
package syncer

import (
	"github.com/magabrotheeeer/panel-sync/internal/models"
)

// Deduplicate сворачивает снимок панели до канонического вида: по одной
// записи на telegram id. Записи без распознанного telegram id отбрасываются
// до группировки. Свертка коммутативна относительно порядка входа.
func Deduplicate(accounts []models.RemoteAccount) map[int64]models.RemoteAccount {
	canonical := make(map[int64]models.RemoteAccount, len(accounts))
	for _, account := range accounts {
		if account.TelegramID == 0 {
			continue
		}
		incumbent, ok := canonical[account.TelegramID]
		if !ok {
			canonical[account.TelegramID] = account
			continue
		}
		canonical[account.TelegramID] = pickCanonical(incumbent, account)
	}
	return canonical
}

// pickCanonical сравнивает пару записей одного telegram id:
// побеждает более поздний expireAt, при равенстве — активный статус.
// При полном равенстве признаков остается уже выбранная запись.
func pickCanonical(a, b models.RemoteAccount) models.RemoteAccount {
	if b.ExpireAt.After(a.ExpireAt) {
		return b
	}
	if a.ExpireAt.After(b.ExpireAt) {
		return a
	}
	if !a.Status.IsActiveLike() && b.Status.IsActiveLike() {
		return b
	}
	return a
}
