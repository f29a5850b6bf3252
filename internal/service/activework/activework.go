// Package activework — текущая работа станка: на станке в любой момент
// активно не больше одного распределения.
package activework

import (
	"context"
	"fmt"
	"log/slog"

	"smena-golang/internal/storage"
)

type ActiveStorage interface {
	GetAssignment(ctx context.Context, id int64) (*storage.Assignment, error)
	StartAssignment(ctx context.Context, machineID, id int64) error
	PauseAssignment(ctx context.Context, id int64) error
	CompleteAssignment(ctx context.Context, id int64) (int64, bool, error)
}

type Service struct {
	log     *slog.Logger
	storage ActiveStorage
}

func NewService(log *slog.Logger, storage ActiveStorage) *Service {
	return &Service{log: log, storage: storage}
}

// Start делает распределение активным; всё прочее активное на этом станке
// снимается той же транзакцией.
func (s *Service) Start(ctx context.Context, machineID, id int64) (*storage.Assignment, error) {
	const op = "service.activework.Start"

	if err := s.storage.StartAssignment(ctx, machineID, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a, err := s.storage.GetAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

// Pause снимает активность; распределение остаётся в очереди смены.
func (s *Service) Pause(ctx context.Context, id int64) error {
	const op = "service.activework.Pause"

	if err := s.storage.PauseAssignment(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// EmergencySwap — срочное прерывание: пауза текущей работы и запуск новой
// как одно действие оператора.
func (s *Service) EmergencySwap(ctx context.Context, machineID, currentID, newID int64) (*storage.Assignment, error) {
	const op = "service.activework.EmergencySwap"

	if err := s.storage.PauseAssignment(ctx, currentID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a, err := s.Start(ctx, machineID, newID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

// Complete закрывает распределение. Если это была последняя открытая строка
// наряда, статус наряда двигается в той же транзакции — ровно один раз.
func (s *Service) Complete(ctx context.Context, id int64) (int64, bool, error) {
	const op = "service.activework.Complete"

	workOrderID, advanced, err := s.storage.CompleteAssignment(ctx, id)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}

	if advanced {
		s.log.Info("наряд полностью закрыт",
			slog.String("op", op),
			slog.Int64("work_order_id", workOrderID),
		)
	}

	return workOrderID, advanced, nil
}
