package mysql

import (
	"context"
	"fmt"

	"smena-golang/internal/storage"
)

// AllocateAssignment атомарно проверяет лимит загрузки станка на смену и
// вставляет распределение. Сумма по слоту берётся под блокировкой, поэтому два
// параллельных распределения на один слот не могут оба пройти проверку.
// Вместе с распределением, в той же транзакции, сохраняется вручную введённая
// норма (если была) — в очередь подтверждения, не в справочник.
func (s *Storage) AllocateAssignment(ctx context.Context, a storage.Assignment, maxKorv float64, pending *storage.PendingRateUpdate) (int64, error) {
	const op = "storage.mysql.AllocateAssignment"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmtUsed := `SELECT COALESCE(SUM(korv), 0) FROM smena_assignments
		WHERE machine_id = ? AND day = ? AND shift = ? AND ` + counted + ` FOR UPDATE`

	var used float64
	err = tx.QueryRowContext(ctx, stmtUsed, a.MachineID, a.Day, a.Shift).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка чтения загрузки слота: %w", op, lockErr(err))
	}

	if used+a.Korv > maxKorv+1e-9 {
		return 0, fmt.Errorf("%s: занято %.2f из %.2f, запрошено ещё %.2f: %w",
			op, used, maxKorv, a.Korv, storage.ErrCapacityExceeded)
	}

	stmtInsert := `INSERT INTO smena_assignments
		(work_order_id, machine_id, day, shift, department, korv, quantity, status,
		 is_active, is_completed, transfer_status, rolled_over_from, superseded, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, 0, ?)`

	exec, err := tx.ExecContext(ctx, stmtInsert,
		a.WorkOrderID, a.MachineID, a.Day, a.Shift, a.Department, a.Korv, a.Quantity,
		storage.StatusAssigned, storage.TransferNone, a.RolledOverFrom, a.Description)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения распределения: %w", op, lockErr(err))
	}

	id, err := exec.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	if pending != nil {
		stmtPending := `INSERT INTO smena_pending_rates (tool_code, machine_class, minutes, is_regrind)
			VALUES (?, ?, ?, ?)`
		_, err = tx.ExecContext(ctx, stmtPending, pending.ToolCode, pending.MachineClass, pending.Minutes, pending.IsRegrind)
		if err != nil {
			return 0, fmt.Errorf("%s: ошибка постановки нормы в очередь: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit transaction: %w", op, lockErr(err))
	}

	return id, nil
}
