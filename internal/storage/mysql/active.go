package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smena-golang/internal/storage"
)

// StartAssignment делает строку единственной активной на станке: снятие
// активности с остальных и включение цели идут одной транзакцией, двух
// последовательных независимых записей здесь нет.
func (s *Storage) StartAssignment(ctx context.Context, machineID, id int64) error {
	const op = "storage.mysql.StartAssignment"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE smena_assignments SET is_active = 0 WHERE machine_id = ? AND is_active = 1`, machineID)
	if err != nil {
		return fmt.Errorf("%s: ошибка снятия активности: %w", op, lockErr(err))
	}

	stmt := `UPDATE smena_assignments
		SET is_active = 1, started_at = COALESCE(started_at, NOW())
		WHERE id = ? AND machine_id = ? AND released_at IS NULL AND transfer_status <> 'pending_approval'`

	exec, err := tx.ExecContext(ctx, stmt, id, machineID)
	if err != nil {
		return fmt.Errorf("%s: ошибка запуска распределения: %w", op, lockErr(err))
	}

	affected, err := exec.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: распределение id=%d для станка id=%d не найдено: %w", op, id, machineID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, lockErr(err))
	}

	return nil
}

// PauseAssignment снимает активность; строка остаётся в очереди смены,
// набранное количество не теряется.
func (s *Storage) PauseAssignment(ctx context.Context, id int64) error {
	const op = "storage.mysql.PauseAssignment"

	exec, err := s.db.ExecContext(ctx,
		`UPDATE smena_assignments SET is_active = 0 WHERE id = ? AND released_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("%s: ошибка приостановки: %w", op, err)
	}

	affected, err := exec.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: открытое распределение id=%d не найдено: %w", op, id, storage.ErrNotFound)
	}

	return nil
}

// CompleteAssignment закрывает распределение и, если по наряду не осталось
// открытых строк, в той же транзакции двигает статус наряда. Условие
// status <> 'done' гарантирует, что сигнал уходит ровно один раз.
func (s *Storage) CompleteAssignment(ctx context.Context, id int64) (int64, bool, error) {
	const op = "storage.mysql.CompleteAssignment"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var workOrderID int64
	err = tx.QueryRowContext(ctx,
		`SELECT work_order_id FROM smena_assignments WHERE id = ? AND released_at IS NULL FOR UPDATE`, id).
		Scan(&workOrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, fmt.Errorf("%s: открытое распределение id=%d не найдено: %w", op, id, storage.ErrNotFound)
		}
		return 0, false, fmt.Errorf("%s: ошибка чтения распределения: %w", op, lockErr(err))
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE smena_assignments SET released_at = NOW(), is_active = 0, is_completed = 1 WHERE id = ?`, id)
	if err != nil {
		return 0, false, fmt.Errorf("%s: ошибка закрытия распределения: %w", op, lockErr(err))
	}

	var open int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM smena_assignments WHERE work_order_id = ? AND `+counted, workOrderID).
		Scan(&open)
	if err != nil {
		return 0, false, fmt.Errorf("%s: ошибка подсчёта открытых распределений: %w", op, err)
	}

	advanced := false
	if open == 0 {
		exec, err := tx.ExecContext(ctx,
			`UPDATE smena_work_orders SET status = ? WHERE id = ? AND status <> ?`,
			storage.OrderStatusDone, workOrderID, storage.OrderStatusDone)
		if err != nil {
			return 0, false, fmt.Errorf("%s: ошибка обновления статуса наряда id=%d: %w", op, workOrderID, err)
		}
		affected, err := exec.RowsAffected()
		if err != nil {
			return 0, false, fmt.Errorf("%s: rows affected: %w", op, err)
		}
		advanced = affected > 0
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("%s: commit transaction: %w", op, lockErr(err))
	}

	return workOrderID, advanced, nil
}
