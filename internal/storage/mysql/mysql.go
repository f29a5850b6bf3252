package mysql

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"smena-golang/internal/config"
	"smena-golang/internal/storage"
)

type Storage struct {
	db *sql.DB
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=%v",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.ParseTime,
	)

	//db, err := sql.Open("mysql", "user:password@tcp(localhost:3306)/smena?parseTime=true")
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Условие учёта строки в остатке наряда и в загрузке станка: не закрыта,
// не замещена переносом смены и не ждёт подтверждения передачи.
const counted = `released_at IS NULL AND superseded = 0 AND transfer_status <> 'pending_approval'`

// lockErr переводит дедлоки и таймауты блокировок MySQL в типовую ошибку
// конфликта, чтобы вызывающий мог повторить запрос с исправленными данными.
func lockErr(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if mysqlErr.Number == 1213 || mysqlErr.Number == 1205 {
			return storage.ErrConcurrencyConflict
		}
	}
	return err
}
