package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smena-golang/internal/storage"
)

const assignmentCols = `id, work_order_id, machine_id, day, shift, department, korv, quantity, status,
		is_active, is_completed, transfer_status, rolled_over_from, superseded, description, created_at, started_at, released_at`

func scanAssignment(row interface{ Scan(...any) error }) (*storage.Assignment, error) {
	var a storage.Assignment
	var description sql.NullString

	err := row.Scan(
		&a.ID,
		&a.WorkOrderID,
		&a.MachineID,
		&a.Day,
		&a.Shift,
		&a.Department,
		&a.Korv,
		&a.Quantity,
		&a.Status,
		&a.IsActive,
		&a.IsCompleted,
		&a.TransferStatus,
		&a.RolledOverFrom,
		&a.Superseded,
		&description,
		&a.CreatedAt,
		&a.StartedAt,
		&a.ReleasedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		a.Description = description.String
	}
	return &a, nil
}

func (s *Storage) GetAssignment(ctx context.Context, id int64) (*storage.Assignment, error) {
	const op = "storage.mysql.GetAssignment"

	stmt := `SELECT ` + assignmentCols + ` FROM smena_assignments WHERE id = ?`

	a, err := scanAssignment(s.db.QueryRowContext(ctx, stmt, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: распределение id=%d не найдено: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: ошибка запроса: %w", op, err)
	}

	return a, nil
}

func (s *Storage) GetAssignmentsBySlot(ctx context.Context, machineID int64, day, shift string) ([]storage.Assignment, error) {
	const op = "storage.mysql.GetAssignmentsBySlot"

	stmt := `SELECT ` + assignmentCols + ` FROM smena_assignments
		WHERE machine_id = ? AND day = ? AND shift = ? AND released_at IS NULL AND superseded = 0
		ORDER BY is_active DESC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, stmt, machineID, day, shift)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения распределений по смене: %w", op, err)
	}
	defer rows.Close()

	var items []storage.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования: %w", op, err)
		}
		items = append(items, *a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка итерации: %w", op, err)
	}

	return items, nil
}

func (s *Storage) GetAssignmentsByWorkOrder(ctx context.Context, workOrderID int64, department string) ([]storage.Assignment, error) {
	const op = "storage.mysql.GetAssignmentsByWorkOrder"

	stmt := `SELECT ` + assignmentCols + ` FROM smena_assignments
		WHERE work_order_id = ? AND (? = '' OR department = ?)
		ORDER BY day ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, stmt, workOrderID, department, department)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения распределений по наряду: %w", op, err)
	}
	defer rows.Close()

	var items []storage.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования: %w", op, err)
		}
		items = append(items, *a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка итерации: %w", op, err)
	}

	return items, nil
}

// SumAssignedQuantity — сколько штук наряда уже распределено по участку
// (без закрытых, замещённых и неподтверждённых строк).
func (s *Storage) SumAssignedQuantity(ctx context.Context, workOrderID int64, department string) (int, error) {
	const op = "storage.mysql.SumAssignedQuantity"

	stmt := `SELECT COALESCE(SUM(quantity), 0) FROM smena_assignments
		WHERE work_order_id = ? AND department = ? AND ` + counted

	var sum int
	err := s.db.QueryRowContext(ctx, stmt, workOrderID, department).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка суммирования количества: %w", op, err)
	}

	return sum, nil
}

func (s *Storage) SumUsedKorv(ctx context.Context, machineID int64, day, shift string) (float64, error) {
	const op = "storage.mysql.SumUsedKorv"

	stmt := `SELECT COALESCE(SUM(korv), 0) FROM smena_assignments
		WHERE machine_id = ? AND day = ? AND shift = ? AND ` + counted

	var sum float64
	err := s.db.QueryRowContext(ctx, stmt, machineID, day, shift).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("%s: ошибка суммирования загрузки: %w", op, err)
	}

	return sum, nil
}
