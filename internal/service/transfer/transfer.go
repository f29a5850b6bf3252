// Package transfer — передача части работы между станками с подтверждением
// принимающей стороной. Неподтверждённая передача не считается загрузкой.
package transfer

import (
	"context"
	"fmt"

	"smena-golang/internal/service/korv"
	"smena-golang/internal/storage"
)

type TransferStorage interface {
	GetMachine(ctx context.Context, id int64) (*storage.MachineConfig, error)
	GetWorkOrder(ctx context.Context, id int64) (*storage.WorkOrder, error)
	GetAssignment(ctx context.Context, id int64) (*storage.Assignment, error)
	SumUsedKorv(ctx context.Context, machineID int64, day, shift string) (float64, error)
	SaveTransfer(ctx context.Context, a storage.Assignment) (int64, error)
	SaveSwap(ctx context.Context, first, second storage.Assignment) (int64, int64, error)
	ApproveTransfer(ctx context.Context, id int64, maxKorv float64) error
	RejectTransfer(ctx context.Context, id int64) error
}

type Service struct {
	storage TransferStorage
}

func NewService(storage TransferStorage) *Service {
	return &Service{storage: storage}
}

// Половина передачи: кому, что и сколько. Минуты — добровольно заявленное
// время на весь объём, текст — описание работы для оператора.
type Leg struct {
	WorkOrderID int64   `json:"work_order_id"`
	MachineID   int64   `json:"machine_id"`
	Day         string  `json:"day"`
	Shift       string  `json:"shift"`
	Department  string  `json:"department"`
	Quantity    int     `json:"quantity"`
	Minutes     float64 `json:"minutes"`
	Description string  `json:"description"`
}

// buildLeg проверяет половину передачи против принимающего станка на момент
// предложения. При подтверждении лимит проверяется ещё раз.
func (s *Service) buildLeg(ctx context.Context, leg Leg) (storage.Assignment, error) {
	if leg.Quantity <= 0 || leg.Minutes <= 0 {
		return storage.Assignment{}, fmt.Errorf("количество и время должны быть больше нуля: %w", storage.ErrValidation)
	}
	if !storage.ValidShift(leg.Shift) {
		return storage.Assignment{}, fmt.Errorf("неизвестная смена %q: %w", leg.Shift, storage.ErrValidation)
	}

	if _, err := s.storage.GetWorkOrder(ctx, leg.WorkOrderID); err != nil {
		return storage.Assignment{}, err
	}

	machine, err := s.storage.GetMachine(ctx, leg.MachineID)
	if err != nil {
		return storage.Assignment{}, err
	}
	if machine.Maintenance {
		return storage.Assignment{}, fmt.Errorf("станок %s на обслуживании: %w", machine.Name, storage.ErrMaintenance)
	}

	units := korv.MinutesToUnit(leg.Minutes)

	used, err := s.storage.SumUsedKorv(ctx, leg.MachineID, leg.Day, leg.Shift)
	if err != nil {
		return storage.Assignment{}, err
	}
	if used+units > machine.MaxKorv {
		return storage.Assignment{}, fmt.Errorf("занято %.2f из %.2f, передача на %.2f: %w",
			used, machine.MaxKorv, units, storage.ErrCapacityExceeded)
	}

	return storage.Assignment{
		WorkOrderID: leg.WorkOrderID,
		MachineID:   leg.MachineID,
		Day:         leg.Day,
		Shift:       leg.Shift,
		Department:  leg.Department,
		Korv:        units,
		Quantity:    leg.Quantity,
		Description: leg.Description,
	}, nil
}

// ProposeOneWay — односторонняя передача: одна неподтверждённая строка на
// принимающем станке. Исходное распределение отдающего станка не меняется —
// переданный объём добавляется к загрузке получателя, а не вычитается.
func (s *Service) ProposeOneWay(ctx context.Context, leg Leg) (*storage.Assignment, error) {
	const op = "service.transfer.ProposeOneWay"

	a, err := s.buildLeg(ctx, leg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.storage.SaveTransfer(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.storage.GetAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// ProposeSwap — обмен: две связанные неподтверждённые строки, каждая ждёт
// подтверждения оператором своего станка.
func (s *Service) ProposeSwap(ctx context.Context, first, second Leg) (*storage.Assignment, *storage.Assignment, error) {
	const op = "service.transfer.ProposeSwap"

	a, err := s.buildLeg(ctx, first)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	b, err := s.buildLeg(ctx, second)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	idA, idB, err := s.storage.SaveSwap(ctx, a, b)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	createdA, err := s.storage.GetAssignment(ctx, idA)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	createdB, err := s.storage.GetAssignment(ctx, idB)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return createdA, createdB, nil
}

// Approve переводит передачу в подтверждённые — только после этого она
// попадает в загрузку и в остаток наряда. Лимит принимающего станка
// проверяется повторно.
func (s *Service) Approve(ctx context.Context, id int64) (*storage.Assignment, error) {
	const op = "service.transfer.Approve"

	a, err := s.storage.GetAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if a.TransferStatus != storage.TransferPending {
		return nil, fmt.Errorf("%s: распределение id=%d не ждёт подтверждения: %w", op, id, storage.ErrNotFound)
	}

	machine, err := s.storage.GetMachine(ctx, a.MachineID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.ApproveTransfer(ctx, id, machine.MaxKorv); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	approved, err := s.storage.GetAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return approved, nil
}

// Reject удаляет неподтверждённую передачу насовсем.
func (s *Service) Reject(ctx context.Context, id int64) error {
	const op = "service.transfer.Reject"

	if err := s.storage.RejectTransfer(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
