package models

import "time"

// SubscriptionStatus — статус подписки в локальном хранилище.
type SubscriptionStatus string

// Возможные статусы локальной подписки.
const (
	StatusNone     SubscriptionStatus = "NONE"     // Подписка создана, но панель ещё не сообщала статус
	StatusActive   SubscriptionStatus = "ACTIVE"   // Активная подписка
	StatusTrial    SubscriptionStatus = "TRIAL"    // Пробный период
	StatusExpired  SubscriptionStatus = "EXPIRED"  // Срок действия истёк
	StatusDisabled SubscriptionStatus = "DISABLED" // Отключена на панели
)

// Subscription — локальное зеркало подписки пользователя на панели.
//
// Поля статуса, трафика, устройств и ссылок заполняются движком синхронизации
// из данных панели. IsTrial и AutopayEnabled принадлежат локальной бизнес-логике,
// панель их не перезаписывает.
type Subscription struct {
	ID              int                // Идентификатор записи
	UserUID         string             // UID владельца, связь 1:1 с users
	Status          SubscriptionStatus // Текущий статус
	EndDate         *time.Time         // Дата окончания, nil если панель её не сообщала
	TrafficLimitGB  float64            // Лимит трафика в гигабайтах, 0 — безлимит
	TrafficUsedGB   float64            // Использованный трафик в гигабайтах
	DeviceLimit     int                // Лимит устройств, 0 — без ограничения
	ConnectedSquads []string           // UUID сквадов (групп серверов), к которым подключён пользователь
	ShortUUID       string             // Короткий идентификатор подписки на панели
	SubscriptionURL string             // Ссылка на страницу подписки
	CryptoLink      string             // Ссылка в формате crypto-link
	IsTrial         bool               // Признак пробной подписки, локальное поле
	AutopayEnabled  bool               // Автосписание включено, локальное поле
	CreatedAt       time.Time          // Дата создания записи
	UpdatedAt       time.Time          // Дата последнего изменения
}
