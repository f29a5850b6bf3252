package mysql

import (
	"context"
	"fmt"

	"smena-golang/internal/storage"
)

func (s *Storage) GetPendingRates(ctx context.Context) ([]storage.PendingRateUpdate, error) {
	const op = "storage.mysql.GetPendingRates"

	stmt := `SELECT id, tool_code, machine_class, minutes, is_regrind, created_at
		FROM smena_pending_rates ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения очереди норм: %w", op, err)
	}
	defer rows.Close()

	var items []storage.PendingRateUpdate
	for rows.Next() {
		var p storage.PendingRateUpdate
		err = rows.Scan(&p.ID, &p.ToolCode, &p.MachineClass, &p.Minutes, &p.IsRegrind, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования: %w", op, err)
		}
		items = append(items, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка итерации: %w", op, err)
	}

	return items, nil
}

// FinalizePendingRates переносит вручную введённые нормы из очереди в
// справочники одной транзакцией — вторая фаза после allocate с ручной нормой.
func (s *Storage) FinalizePendingRates(ctx context.Context) (int, error) {
	const op = "storage.mysql.FinalizePendingRates"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, tool_code, machine_class, minutes, is_regrind FROM smena_pending_rates FOR UPDATE`)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка чтения очереди: %w", op, lockErr(err))
	}

	var pending []storage.PendingRateUpdate
	for rows.Next() {
		var p storage.PendingRateUpdate
		if err := rows.Scan(&p.ID, &p.ToolCode, &p.MachineClass, &p.Minutes, &p.IsRegrind); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%s: ошибка сканирования: %w", op, err)
		}
		pending = append(pending, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%s: ошибка итерации: %w", op, err)
	}

	stmtTool := `INSERT INTO smena_tool_times (tool_code, machine_class, minutes) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE minutes = VALUES(minutes)`
	stmtRegrind := `INSERT INTO smena_regrind_rates (tool_code, minutes) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE minutes = VALUES(minutes)`

	for _, p := range pending {
		if p.IsRegrind {
			_, err = tx.ExecContext(ctx, stmtRegrind, p.ToolCode, p.Minutes)
		} else {
			_, err = tx.ExecContext(ctx, stmtTool, p.ToolCode, p.MachineClass, p.Minutes)
		}
		if err != nil {
			return 0, fmt.Errorf("%s: ошибка записи нормы %s в справочник: %w", op, p.ToolCode, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM smena_pending_rates WHERE id = ?`, p.ID); err != nil {
			return 0, fmt.Errorf("%s: ошибка очистки очереди id=%d: %w", op, p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit transaction: %w", op, lockErr(err))
	}

	return len(pending), nil
}
