package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smena-golang/internal/storage"
)

const stmtInsertPending = `INSERT INTO smena_assignments
	(work_order_id, machine_id, day, shift, department, korv, quantity, status,
	 is_active, is_completed, transfer_status, rolled_over_from, superseded, description)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, NULL, 0, ?)`

// SaveTransfer создаёт неподтверждённое распределение на принимающем станке.
// В загрузку оно не попадает, пока оператор станка его не подтвердит.
func (s *Storage) SaveTransfer(ctx context.Context, a storage.Assignment) (int64, error) {
	const op = "storage.mysql.SaveTransfer"

	exec, err := s.db.ExecContext(ctx, stmtInsertPending,
		a.WorkOrderID, a.MachineID, a.Day, a.Shift, a.Department, a.Korv, a.Quantity,
		storage.StatusAssigned, storage.TransferPending, a.Description)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка сохранения передачи: %w", op, err)
	}

	return exec.LastInsertId()
}

// SaveSwap создаёт обе половины обмена одной транзакцией; подтверждаются они
// потом независимо, каждая своим станком.
func (s *Storage) SaveSwap(ctx context.Context, first, second storage.Assignment) (int64, int64, error) {
	const op = "storage.mysql.SaveSwap"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var ids [2]int64
	for i, a := range [2]storage.Assignment{first, second} {
		exec, err := tx.ExecContext(ctx, stmtInsertPending,
			a.WorkOrderID, a.MachineID, a.Day, a.Shift, a.Department, a.Korv, a.Quantity,
			storage.StatusAssigned, storage.TransferPending, a.Description)
		if err != nil {
			return 0, 0, fmt.Errorf("%s: ошибка сохранения половины обмена: %w", op, err)
		}
		ids[i], err = exec.LastInsertId()
		if err != nil {
			return 0, 0, fmt.Errorf("%s: last insert id: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return ids[0], ids[1], nil
}

// ApproveTransfer переводит строку pending_approval → approved, повторно
// проверяя лимит принимающего станка под блокировкой слота.
func (s *Storage) ApproveTransfer(ctx context.Context, id int64, maxKorv float64) error {
	const op = "storage.mysql.ApproveTransfer"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmtRow := `SELECT machine_id, day, shift, korv FROM smena_assignments
		WHERE id = ? AND transfer_status = 'pending_approval' FOR UPDATE`

	var machineID int64
	var day, shift string
	var korv float64
	err = tx.QueryRowContext(ctx, stmtRow, id).Scan(&machineID, &day, &shift, &korv)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: нет неподтверждённой передачи id=%d: %w", op, id, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: ошибка чтения передачи: %w", op, lockErr(err))
	}

	stmtUsed := `SELECT COALESCE(SUM(korv), 0) FROM smena_assignments
		WHERE machine_id = ? AND day = ? AND shift = ? AND ` + counted + ` FOR UPDATE`

	var used float64
	if err := tx.QueryRowContext(ctx, stmtUsed, machineID, day, shift).Scan(&used); err != nil {
		return fmt.Errorf("%s: ошибка чтения загрузки слота: %w", op, lockErr(err))
	}

	if used+korv > maxKorv+1e-9 {
		return fmt.Errorf("%s: занято %.2f из %.2f, передача на %.2f: %w",
			op, used, maxKorv, korv, storage.ErrCapacityExceeded)
	}

	_, err = tx.ExecContext(ctx, `UPDATE smena_assignments SET transfer_status = 'approved' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: ошибка подтверждения передачи: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, lockErr(err))
	}

	return nil
}

// RejectTransfer удаляет неподтверждённую передачу насовсем — она так и не
// стала загрузкой, следов в учёте не остаётся.
func (s *Storage) RejectTransfer(ctx context.Context, id int64) error {
	const op = "storage.mysql.RejectTransfer"

	exec, err := s.db.ExecContext(ctx,
		`DELETE FROM smena_assignments WHERE id = ? AND transfer_status = 'pending_approval'`, id)
	if err != nil {
		return fmt.Errorf("%s: ошибка удаления передачи: %w", op, err)
	}

	affected, err := exec.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: нет неподтверждённой передачи id=%d: %w", op, id, storage.ErrNotFound)
	}

	return nil
}
