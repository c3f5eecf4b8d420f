package models

// SyncMode — режим запуска синхронизации.
type SyncMode string

// Режимы запуска. Названия совпадают со значениями в HTTP API и CLI.
const (
	ModeFull       SyncMode = "full"        // Создание, обновление и деактивация отсутствующих
	ModeCreateOnly SyncMode = "create-only" // Только создание ранее не виденных пользователей
	ModeUpdateOnly SyncMode = "update-only" // Только обновление уже существующих
)

// Valid сообщает, известен ли режим.
func (m SyncMode) Valid() bool {
	switch m {
	case ModeFull, ModeCreateOnly, ModeUpdateOnly:
		return true
	}
	return false
}

// Policy — развёрнутые флаги режима, по которым движок принимает решения.
type Policy struct {
	AllowCreate       bool // Разрешено создавать локальных пользователей
	AllowUpdate       bool // Разрешено обновлять зеркала существующих
	DeactivateMissing bool // Деактивировать подписки, отсутствующие в снимке панели
}

// PolicyFor возвращает флаги для режима запуска.
func PolicyFor(mode SyncMode) Policy {
	switch mode {
	case ModeCreateOnly:
		return Policy{AllowCreate: true}
	case ModeUpdateOnly:
		return Policy{AllowUpdate: true}
	default:
		return Policy{AllowCreate: true, AllowUpdate: true, DeactivateMissing: true}
	}
}

// SyncStats — счётчики одного запуска синхронизации или ремонтного прохода.
// Ошибки не прерывают запуск, а копятся в Errors.
type SyncStats struct {
	Checked     int `json:"checked"`     // Сколько записей рассмотрено
	Created     int `json:"created"`     // Создано локальных пользователей/подписок
	Updated     int `json:"updated"`     // Обновлено зеркал
	Deactivated int `json:"deactivated"` // Деактивировано или исправлено
	Errors      int `json:"errors"`      // Изолированных ошибок по записям
}
