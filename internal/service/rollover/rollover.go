// Package rollover — перенос незавершённых распределений через границу
// смены. Смены идут циклом: первая → вторая → ночная → первая следующего дня.
package rollover

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"smena-golang/internal/storage"
)

type RolloverStorage interface {
	GetMachine(ctx context.Context, id int64) (*storage.MachineConfig, error)
	GetMachines(ctx context.Context) ([]storage.MachineConfig, error)
	RolloverAssignments(ctx context.Context, machineID int64, fromDay, fromShift, toDay, toShift string) (int, error)
}

type Service struct {
	log     *slog.Logger
	storage RolloverStorage
}

func NewService(log *slog.Logger, storage RolloverStorage) *Service {
	return &Service{log: log, storage: storage}
}

// MachineResult — итог переноса по одному станку. Ошибка одного станка не
// мешает переносу на остальных.
type MachineResult struct {
	MachineID int64  `json:"machine_id"`
	Carried   int    `json:"carried"`
	Error     string `json:"error,omitempty"`
}

// Rollover переносит незавершённое с предыдущего слота станка в (day, shift).
// Клоны получают rolled_over_from, исходные строки помечаются замещёнными,
// так что повторный вызов ничего не дублирует.
func (s *Service) Rollover(ctx context.Context, machineID int64, day, shift string) (int, error) {
	const op = "service.rollover.Rollover"

	if _, err := s.storage.GetMachine(ctx, machineID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	fromDay, fromShift, err := storage.PrevSlot(day, shift)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	carried, err := s.storage.RolloverAssignments(ctx, machineID, fromDay, fromShift, day, shift)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return carried, nil
}

// RolloverAll запускает перенос по всем активным станкам параллельно.
// Группа без общего контекста отмены: сбой одного станка не останавливает
// и не откатывает остальные, ошибки собираются по станкам.
func (s *Service) RolloverAll(ctx context.Context, day, shift string) ([]MachineResult, error) {
	const op = "service.rollover.RolloverAll"

	fromDay, fromShift, err := storage.PrevSlot(day, shift)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	machines, err := s.storage.GetMachines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	results := make([]MachineResult, len(machines))

	var g errgroup.Group

	for i, m := range machines {
		g.Go(func() error {
			carried, err := s.storage.RolloverAssignments(ctx, m.ID, fromDay, fromShift, day, shift)

			results[i] = MachineResult{MachineID: m.ID, Carried: carried}
			if err != nil {
				results[i].Error = err.Error()
				s.log.Error("перенос по станку не выполнен",
					slog.String("op", op),
					slog.Int64("machine_id", m.ID),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}

	// Горутины всегда возвращают nil: изоляция по станкам важнее общего фейла.
	_ = g.Wait()

	return results, nil
}
