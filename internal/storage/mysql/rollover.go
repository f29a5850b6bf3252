package mysql

import (
	"context"
	"fmt"

	"smena-golang/internal/storage"
)

// RolloverAssignments переносит незавершённые распределения станка из
// предыдущего слота в текущий: клон получает rolled_over_from, исходная строка
// помечается superseded в той же транзакции. Повторный вызов для того же слота
// не находит, что переносить — перенос идемпотентен.
func (s *Storage) RolloverAssignments(ctx context.Context, machineID int64, fromDay, fromShift, toDay, toShift string) (int, error) {
	const op = "storage.mysql.RolloverAssignments"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmtUnfinished := `SELECT id, work_order_id, department, korv, quantity FROM smena_assignments
		WHERE machine_id = ? AND day = ? AND shift = ?
		  AND status = ? AND is_completed = 0 AND ` + counted + ` FOR UPDATE`

	rows, err := tx.QueryContext(ctx, stmtUnfinished, machineID, fromDay, fromShift, storage.StatusAssigned)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка чтения незавершённых распределений: %w", op, lockErr(err))
	}

	type carry struct {
		id          int64
		workOrderID int64
		department  string
		korv        float64
		quantity    int
	}

	var carries []carry
	for rows.Next() {
		var c carry
		if err := rows.Scan(&c.id, &c.workOrderID, &c.department, &c.korv, &c.quantity); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%s: ошибка сканирования: %w", op, err)
		}
		carries = append(carries, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%s: ошибка итерации: %w", op, err)
	}

	stmtClone := `INSERT INTO smena_assignments
		(work_order_id, machine_id, day, shift, department, korv, quantity, status,
		 is_active, is_completed, transfer_status, rolled_over_from, superseded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, 0)`

	for _, c := range carries {
		_, err := tx.ExecContext(ctx, stmtClone,
			c.workOrderID, machineID, toDay, toShift, c.department, c.korv, c.quantity,
			storage.StatusAssigned, storage.TransferNone, c.id)
		if err != nil {
			return 0, fmt.Errorf("%s: ошибка переноса распределения id=%d: %w", op, c.id, err)
		}

		_, err = tx.ExecContext(ctx, `UPDATE smena_assignments SET superseded = 1, is_active = 0 WHERE id = ?`, c.id)
		if err != nil {
			return 0, fmt.Errorf("%s: ошибка пометки исходного распределения id=%d: %w", op, c.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit transaction: %w", op, lockErr(err))
	}

	return len(carries), nil
}
