// Package models содержит доменные структуры движка синхронизации:
// локального пользователя с подпиской-зеркалом, учётную запись панели
// и счётчики результатов запуска. Структуры используются в бизнес‑логике
// и при работе с хранилищем.
package models

import "time"

// User представляет локального пользователя сервиса.
//
// PanelUUID может быть nil — это означает, что пользователь ещё не связан
// с учётной записью панели (или связь была разорвана при деактивации).
// Поле Balance принадлежит биллингу, движок синхронизации его не изменяет.
type User struct {
	UID          string        // Локальный идентификатор (UUID)
	TelegramID   int64         // Telegram ID — общий с панелью внешний идентификатор, уникален
	Username     string        // Имя пользователя в Telegram, может быть пустым
	PanelUUID    *string       // UUID учётной записи панели, уникален среди заполненных
	Balance      int64         // Баланс в копейках
	CreatedAt    time.Time     // Дата создания записи
	UpdatedAt    time.Time     // Дата последнего изменения записи
	Subscription *Subscription // Подписка-зеркало, nil если ещё не создана
}
