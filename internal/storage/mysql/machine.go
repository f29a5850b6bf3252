package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smena-golang/internal/storage"
)

func (s *Storage) GetMachine(ctx context.Context, id int64) (*storage.MachineConfig, error) {
	const op = "storage.mysql.GetMachine"

	stmt := `SELECT id, name, class, max_korv, maintenance, is_active FROM smena_machines WHERE id = ?`

	var m storage.MachineConfig
	err := s.db.QueryRowContext(ctx, stmt, id).
		Scan(&m.ID, &m.Name, &m.Class, &m.MaxKorv, &m.Maintenance, &m.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: станок id=%d не найден: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: ошибка запроса: %w", op, err)
	}

	return &m, nil
}

func (s *Storage) GetMachines(ctx context.Context) ([]storage.MachineConfig, error) {
	const op = "storage.mysql.GetMachines"

	stmt := `SELECT id, name, class, max_korv, maintenance, is_active FROM smena_machines
		WHERE is_active = TRUE ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения станков: %w", op, err)
	}
	defer rows.Close()

	var items []storage.MachineConfig
	for rows.Next() {
		var m storage.MachineConfig
		err = rows.Scan(&m.ID, &m.Name, &m.Class, &m.MaxKorv, &m.Maintenance, &m.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования: %w", op, err)
		}
		items = append(items, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка итерации: %w", op, err)
	}

	return items, nil
}

func (s *Storage) SaveMachine(ctx context.Context, m storage.MachineConfig) (int64, error) {
	const op = "storage.mysql.SaveMachine"

	stmt := `INSERT INTO smena_machines (name, class, max_korv, maintenance, is_active)
		VALUES (?, ?, ?, ?, TRUE)`

	exec, err := s.db.ExecContext(ctx, stmt, m.Name, m.Class, m.MaxKorv, m.Maintenance)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения станка: %w", op, err)
	}

	return exec.LastInsertId()
}

// UpdateMachine — настройки из админки: лимит смены и флаг обслуживания.
func (s *Storage) UpdateMachine(ctx context.Context, m storage.MachineConfig) error {
	const op = "storage.mysql.UpdateMachine"

	stmt := `UPDATE smena_machines SET max_korv = ?, maintenance = ?, is_active = ? WHERE id = ?`

	_, err := s.db.ExecContext(ctx, stmt, m.MaxKorv, m.Maintenance, m.IsActive, m.ID)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления станка id=%d: %w", op, m.ID, err)
	}

	return nil
}
