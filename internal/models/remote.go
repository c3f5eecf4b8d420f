package models

import "time"

// RemoteStatus — статус учётной записи на панели.
type RemoteStatus string

// Статусы, которые сообщает панель. Список не закрыт: новые значения
// панели проходят сквозь движок и попадают в ветку "оставить без изменений"
// при выводе локального статуса.
const (
	RemoteStatusActive   RemoteStatus = "ACTIVE"
	RemoteStatusTrial    RemoteStatus = "TRIAL"
	RemoteStatusDisabled RemoteStatus = "DISABLED"
	RemoteStatusLimited  RemoteStatus = "LIMITED"
	RemoteStatusExpired  RemoteStatus = "EXPIRED"
)

// IsActiveLike сообщает, входит ли статус в набор «живых» статусов панели.
// Набор фиксирован: ACTIVE и TRIAL.
func (s RemoteStatus) IsActiveLike() bool {
	return s == RemoteStatusActive || s == RemoteStatusTrial
}

// RemoteAccount — учётная запись пользователя, полученная из панели.
// Живёт только в течение одного запуска синхронизации и заново
// выгружается при каждом запуске.
//
// TelegramID равен нулю, если панель не сообщила идентификатор или он
// не разобрался — такие записи отбрасываются дедупликатором до группировки.
type RemoteAccount struct {
	UUID              string       // UUID учётной записи на панели
	TelegramID        int64        // Telegram ID владельца, 0 — неизвестен
	Username          string       // Имя пользователя на панели
	Status            RemoteStatus // Статус на панели
	ExpireAt          time.Time    // Дата окончания доступа
	TrafficLimitBytes int64        // Лимит трафика в байтах, 0 — безлимит
	TrafficUsedBytes  int64        // Использованный трафик в байтах
	DeviceLimit       int          // Лимит устройств
	ShortUUID         string       // Короткий идентификатор подписки
	SubscriptionURL   string       // Ссылка на страницу подписки
	CryptoLink        string       // Ссылка в формате crypto-link
	Squads            []string     // UUID сквадов, подключённых к учётной записи
}
