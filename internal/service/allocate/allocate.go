// Package allocate — проверка и фиксация частичного распределения наряда
// на станок в слот (день, смена, участок).
package allocate

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"smena-golang/internal/service/korv"
	"smena-golang/internal/storage"
)

type AllocateStorage interface {
	GetWorkOrder(ctx context.Context, id int64) (*storage.WorkOrder, error)
	GetMachine(ctx context.Context, id int64) (*storage.MachineConfig, error)
	SumAssignedQuantity(ctx context.Context, workOrderID int64, department string) (int, error)
	GetToolMinutes(ctx context.Context, toolCode, machineClass string) (float64, error)
	GetRegrindMinutes(ctx context.Context, toolCode string) (float64, error)
	AllocateAssignment(ctx context.Context, a storage.Assignment, maxKorv float64, pending *storage.PendingRateUpdate) (int64, error)
	GetAssignment(ctx context.Context, id int64) (*storage.Assignment, error)
}

type Service struct {
	storage AllocateStorage
}

func NewService(storage AllocateStorage) *Service {
	return &Service{storage: storage}
}

type Request struct {
	WorkOrderID int64  `json:"work_order_id"`
	MachineID   int64  `json:"machine_id"`
	Day         string `json:"day"`
	Shift       string `json:"shift"`
	Department  string `json:"department"`
	Quantity    int    `json:"quantity"`
	// Ручная норма (минут на штуку) на случай отсутствия записи в справочнике.
	// Используется только для этого вызова и встаёт в очередь подтверждения.
	ManualMinutes *float64 `json:"manual_minutes,omitempty"`
}

// Allocate выполняет все проверки и атомарно создаёт распределение.
// Неудачная проверка не оставляет в базе ничего.
func (s *Service) Allocate(ctx context.Context, req Request) (*storage.Assignment, error) {
	const op = "service.allocate.Allocate"

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%s: количество должно быть больше нуля: %w", op, storage.ErrValidation)
	}
	if !storage.ValidShift(req.Shift) {
		return nil, fmt.Errorf("%s: неизвестная смена %q: %w", op, req.Shift, storage.ErrValidation)
	}

	var (
		order    *storage.WorkOrder
		machine  *storage.MachineConfig
		assigned int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = s.storage.GetWorkOrder(gCtx, req.WorkOrderID)
		if err != nil {
			return fmt.Errorf("order: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		machine, err = s.storage.GetMachine(gCtx, req.MachineID)
		if err != nil {
			return fmt.Errorf("machine: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		assigned, err = s.storage.SumAssignedQuantity(gCtx, req.WorkOrderID, req.Department)
		if err != nil {
			return fmt.Errorf("assigned: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	remaining := order.Quantity - assigned
	if req.Quantity > remaining {
		return nil, fmt.Errorf("%s: запрошено %d при остатке %d: %w", op, req.Quantity, remaining, storage.ErrValidation)
	}

	if machine.Maintenance {
		return nil, fmt.Errorf("%s: станок %s на обслуживании: %w", op, machine.Name, storage.ErrMaintenance)
	}

	minutes, pending, err := s.resolveMinutes(ctx, order, machine, req.ManualMinutes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	units := korv.TotalUnit(korv.UnitPerPiece(minutes), req.Quantity)

	a := storage.Assignment{
		WorkOrderID: req.WorkOrderID,
		MachineID:   req.MachineID,
		Day:         req.Day,
		Shift:       req.Shift,
		Department:  req.Department,
		Korv:        units,
		Quantity:    req.Quantity,
	}

	// Лимит слота проверяется ещё раз в транзакции вставки, под блокировкой.
	id, err := s.storage.AllocateAssignment(ctx, a, machine.MaxKorv, pending)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.storage.GetAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// resolveMinutes определяет норму на штуку: для заточных нарядов — из таблицы
// заточки (только фрезерная операция), иначе — из справочника по классу
// станка. При отсутствии нормы выручает ручное значение, которое уходит в
// очередь подтверждения справочника.
func (s *Service) resolveMinutes(ctx context.Context, order *storage.WorkOrder, machine *storage.MachineConfig, manual *float64) (float64, *storage.PendingRateUpdate, error) {
	var minutes float64
	var err error

	if order.IsRegrind() {
		minutes, err = s.storage.GetRegrindMinutes(ctx, order.ToolCode)
	} else {
		minutes, err = s.storage.GetToolMinutes(ctx, order.ToolCode, machine.Class)
	}
	if err == nil {
		return minutes, nil, nil
	}
	if !errors.Is(err, storage.ErrMissingTimeData) {
		return 0, nil, err
	}

	if manual == nil || *manual <= 0 {
		return 0, nil, err
	}

	pending := &storage.PendingRateUpdate{
		ToolCode:     order.ToolCode,
		MachineClass: machine.Class,
		Minutes:      *manual,
		IsRegrind:    order.IsRegrind(),
	}

	return *manual, pending, nil
}
