package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smena-golang/internal/storage"
)

func (s *Storage) GetWorkOrder(ctx context.Context, id int64) (*storage.WorkOrder, error) {
	const op = "storage.mysql.GetWorkOrder"

	stmt := `SELECT id, order_num, tool_code, type, quantity, status, created_at
		FROM smena_work_orders WHERE id = ?`

	var w storage.WorkOrder
	err := s.db.QueryRowContext(ctx, stmt, id).
		Scan(&w.ID, &w.OrderNum, &w.ToolCode, &w.Type, &w.Quantity, &w.Status, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: наряд id=%d не найден: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: ошибка запроса: %w", op, err)
	}

	return &w, nil
}

func (s *Storage) GetWorkOrders(ctx context.Context, orderNum, orderType string) ([]storage.WorkOrder, error) {
	const op = "storage.mysql.GetWorkOrders"

	stmt := `SELECT id, order_num, tool_code, type, quantity, status, created_at FROM smena_work_orders
		WHERE (? = '' OR order_num LIKE CONCAT('%', ?, '%')) AND (? = '' OR type = ?)
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, stmt, orderNum, orderNum, orderType, orderType)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения нарядов: %w", op, err)
	}
	defer rows.Close()

	var items []storage.WorkOrder
	for rows.Next() {
		var w storage.WorkOrder
		err = rows.Scan(&w.ID, &w.OrderNum, &w.ToolCode, &w.Type, &w.Quantity, &w.Status, &w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования: %w", op, err)
		}
		items = append(items, w)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка итерации: %w", op, err)
	}

	return items, nil
}
