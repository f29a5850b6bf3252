package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smena-golang/internal/storage"
)

// GetToolMinutes — норма операции для пары (инструмент, класс станка).
// Отсутствие нормы — это ErrMissingTimeData: вызывающий может передать
// ручную норму одним вызовом распределения.
func (s *Storage) GetToolMinutes(ctx context.Context, toolCode, machineClass string) (float64, error) {
	const op = "storage.mysql.GetToolMinutes"

	stmt := `SELECT minutes FROM smena_tool_times WHERE tool_code = ? AND machine_class = ?`

	var minutes float64
	err := s.db.QueryRowContext(ctx, stmt, toolCode, machineClass).Scan(&minutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: нет нормы для %s/%s: %w", op, toolCode, machineClass, storage.ErrMissingTimeData)
		}
		return 0, fmt.Errorf("%s: ошибка запроса: %w", op, err)
	}

	return minutes, nil
}

// GetRegrindMinutes — норма из отдельной таблицы заточки, ключ по инструменту.
func (s *Storage) GetRegrindMinutes(ctx context.Context, toolCode string) (float64, error) {
	const op = "storage.mysql.GetRegrindMinutes"

	stmt := `SELECT minutes FROM smena_regrind_rates WHERE tool_code = ?`

	var minutes float64
	err := s.db.QueryRowContext(ctx, stmt, toolCode).Scan(&minutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: нет нормы заточки для %s: %w", op, toolCode, storage.ErrMissingTimeData)
		}
		return 0, fmt.Errorf("%s: ошибка запроса: %w", op, err)
	}

	return minutes, nil
}

func (s *Storage) GetRegrindRates(ctx context.Context) ([]storage.RegrindRate, error) {
	const op = "storage.mysql.GetRegrindRates"

	rows, err := s.db.QueryContext(ctx, `SELECT tool_code, minutes FROM smena_regrind_rates ORDER BY tool_code ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения норм заточки: %w", op, err)
	}
	defer rows.Close()

	var items []storage.RegrindRate
	for rows.Next() {
		var r storage.RegrindRate
		if err := rows.Scan(&r.ToolCode, &r.Minutes); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования: %w", op, err)
		}
		items = append(items, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка итерации: %w", op, err)
	}

	return items, nil
}

// UpdateRate — прямая правка справочника из админки (не двухфазный путь).
func (s *Storage) UpdateRate(ctx context.Context, r storage.PendingRateUpdate) error {
	const op = "storage.mysql.UpdateRate"

	if r.IsRegrind {
		stmt := `INSERT INTO smena_regrind_rates (tool_code, minutes) VALUES (?, ?)
			ON DUPLICATE KEY UPDATE minutes = VALUES(minutes)`
		if _, err := s.db.ExecContext(ctx, stmt, r.ToolCode, r.Minutes); err != nil {
			return fmt.Errorf("%s: ошибка обновления нормы заточки: %w", op, err)
		}
		return nil
	}

	stmt := `INSERT INTO smena_tool_times (tool_code, machine_class, minutes) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE minutes = VALUES(minutes)`
	if _, err := s.db.ExecContext(ctx, stmt, r.ToolCode, r.MachineClass, r.Minutes); err != nil {
		return fmt.Errorf("%s: ошибка обновления нормы: %w", op, err)
	}

	return nil
}
