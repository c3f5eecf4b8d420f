// Package repository реализует хранилище данных на основе PostgreSQL
// для локального зеркала пользователей панели и их подписок. Предоставляет
// массовое чтение пользователей с подписками, пакетные записи в одной
// транзакции с savepoint на каждую запись, ремонтные одиночные правки
// и журнал запусков синхронизации.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrUserNotFound возвращается, когда пользователь отсутствует в базе.
var ErrUserNotFound = errors.New("user not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями, подписками и журналом запусков.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'subscriptions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table subscriptions missing or query error: %w", err)
	}
	return nil
}

// IsUniqueViolation сообщает, вызвана ли ошибка нарушением уникального ограничения.
// Используется при создании пользователя: конфликт по telegram_id означает,
// что строка уже существует и её нужно перечитать.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
