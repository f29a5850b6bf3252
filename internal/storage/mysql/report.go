package mysql

import (
	"context"
	"fmt"

	"smena-golang/internal/storage"
)

// GetShiftLoads собирает загрузку всех активных станков по трём сменам дня
// для отчёта: занято/лимит в КОРВ.
func (s *Storage) GetShiftLoads(ctx context.Context, day string) ([]storage.ShiftLoad, error) {
	const op = "storage.mysql.GetShiftLoads"

	machines, err := s.GetMachines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stmt := `SELECT machine_id, shift, COALESCE(SUM(korv), 0) FROM smena_assignments
		WHERE day = ? AND ` + counted + ` GROUP BY machine_id, shift`

	rows, err := s.db.QueryContext(ctx, stmt, day)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения загрузки за день: %w", op, err)
	}
	defer rows.Close()

	type key struct {
		machineID int64
		shift     string
	}
	used := make(map[key]float64)

	for rows.Next() {
		var machineID int64
		var shift string
		var sum float64
		if err := rows.Scan(&machineID, &shift, &sum); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования: %w", op, err)
		}
		used[key{machineID, shift}] = sum
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка итерации: %w", op, err)
	}

	shifts := []string{storage.ShiftFirst, storage.ShiftSecond, storage.ShiftNight}

	var loads []storage.ShiftLoad
	for _, m := range machines {
		for _, shift := range shifts {
			loads = append(loads, storage.ShiftLoad{
				MachineID:   m.ID,
				MachineName: m.Name,
				Shift:       shift,
				UsedKorv:    used[key{m.ID, shift}],
				MaxKorv:     m.MaxKorv,
			})
		}
	}

	return loads, nil
}
