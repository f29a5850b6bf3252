package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"smena-golang/internal/storage"
)

type MockTransferStorage struct {
	mock.Mock
}

func (m *MockTransferStorage) GetMachine(ctx context.Context, id int64) (*storage.MachineConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.MachineConfig), args.Error(1)
}

func (m *MockTransferStorage) GetWorkOrder(ctx context.Context, id int64) (*storage.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.WorkOrder), args.Error(1)
}

func (m *MockTransferStorage) GetAssignment(ctx context.Context, id int64) (*storage.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Assignment), args.Error(1)
}

func (m *MockTransferStorage) SumUsedKorv(ctx context.Context, machineID int64, day, shift string) (float64, error) {
	args := m.Called(ctx, machineID, day, shift)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockTransferStorage) SaveTransfer(ctx context.Context, a storage.Assignment) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransferStorage) SaveSwap(ctx context.Context, first, second storage.Assignment) (int64, int64, error) {
	args := m.Called(ctx, first, second)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransferStorage) ApproveTransfer(ctx context.Context, id int64, maxKorv float64) error {
	args := m.Called(ctx, id, maxKorv)
	return args.Error(0)
}

func (m *MockTransferStorage) RejectTransfer(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testLeg() Leg {
	return Leg{
		WorkOrderID: 7,
		MachineID:   5,
		Day:         "2026-02-10",
		Shift:       storage.ShiftSecond,
		Department:  "mech",
		Quantity:    3,
		Minutes:     50, // 10 КОРВ
		Description: "доделать партию после поломки",
	}
}

func targetMachine() *storage.MachineConfig {
	return &storage.MachineConfig{ID: 5, Name: "3Б642", Class: storage.ClassToolCutter, MaxKorv: 80}
}

// Односторонняя передача создаёт одну неподтверждённую строку на получателе.
func TestProposeOneWay_Success(t *testing.T) {
	mockStorage := new(MockTransferStorage)

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(&storage.WorkOrder{ID: 7, Quantity: 30}, nil)
	mockStorage.On("GetMachine", mock.Anything, int64(5)).Return(targetMachine(), nil)
	mockStorage.On("SumUsedKorv", mock.Anything, int64(5), "2026-02-10", storage.ShiftSecond).Return(60.0, nil)

	mockStorage.On("SaveTransfer", mock.Anything, mock.MatchedBy(func(a storage.Assignment) bool {
		return a.Korv == 10.0 && a.Quantity == 3 && a.Description != ""
	})).Return(int64(91), nil)

	pending := &storage.Assignment{ID: 91, MachineID: 5, Korv: 10.0, TransferStatus: storage.TransferPending}
	mockStorage.On("GetAssignment", mock.Anything, int64(91)).Return(pending, nil)

	service := NewService(mockStorage)

	a, err := service.ProposeOneWay(context.Background(), testLeg())

	assert.NoError(t, err)
	assert.Equal(t, storage.TransferPending, a.TransferStatus)
	mockStorage.AssertExpectations(t)
}

// Предложение проверяет лимит принимающего станка.
func TestProposeOneWay_CapacityExceeded(t *testing.T) {
	mockStorage := new(MockTransferStorage)

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(&storage.WorkOrder{ID: 7, Quantity: 30}, nil)
	mockStorage.On("GetMachine", mock.Anything, int64(5)).Return(targetMachine(), nil)
	mockStorage.On("SumUsedKorv", mock.Anything, int64(5), "2026-02-10", storage.ShiftSecond).Return(75.0, nil)

	service := NewService(mockStorage)

	_, err := service.ProposeOneWay(context.Background(), testLeg())

	assert.ErrorIs(t, err, storage.ErrCapacityExceeded)
	mockStorage.AssertNotCalled(t, "SaveTransfer")
}

func TestProposeOneWay_Maintenance(t *testing.T) {
	mockStorage := new(MockTransferStorage)

	machine := targetMachine()
	machine.Maintenance = true

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(&storage.WorkOrder{ID: 7, Quantity: 30}, nil)
	mockStorage.On("GetMachine", mock.Anything, int64(5)).Return(machine, nil)

	service := NewService(mockStorage)

	_, err := service.ProposeOneWay(context.Background(), testLeg())

	assert.ErrorIs(t, err, storage.ErrMaintenance)
	mockStorage.AssertNotCalled(t, "SaveTransfer")
}

// Обе половины обмена создаются вместе, каждая ждёт своего подтверждения.
func TestProposeSwap_Success(t *testing.T) {
	mockStorage := new(MockTransferStorage)

	second := testLeg()
	second.WorkOrderID = 8
	second.MachineID = 6

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(&storage.WorkOrder{ID: 7, Quantity: 30}, nil)
	mockStorage.On("GetWorkOrder", mock.Anything, int64(8)).Return(&storage.WorkOrder{ID: 8, Quantity: 12}, nil)
	mockStorage.On("GetMachine", mock.Anything, int64(5)).Return(targetMachine(), nil)
	mockStorage.On("GetMachine", mock.Anything, int64(6)).
		Return(&storage.MachineConfig{ID: 6, Name: "16К20", Class: storage.ClassCylindricalGrinding, MaxKorv: 90}, nil)
	mockStorage.On("SumUsedKorv", mock.Anything, int64(5), "2026-02-10", storage.ShiftSecond).Return(0.0, nil)
	mockStorage.On("SumUsedKorv", mock.Anything, int64(6), "2026-02-10", storage.ShiftSecond).Return(0.0, nil)

	mockStorage.On("SaveSwap", mock.Anything, mock.Anything, mock.Anything).Return(int64(92), int64(93), nil)
	mockStorage.On("GetAssignment", mock.Anything, int64(92)).
		Return(&storage.Assignment{ID: 92, TransferStatus: storage.TransferPending}, nil)
	mockStorage.On("GetAssignment", mock.Anything, int64(93)).
		Return(&storage.Assignment{ID: 93, TransferStatus: storage.TransferPending}, nil)

	service := NewService(mockStorage)

	a, b, err := service.ProposeSwap(context.Background(), testLeg(), second)

	assert.NoError(t, err)
	assert.Equal(t, int64(92), a.ID)
	assert.Equal(t, int64(93), b.ID)
	mockStorage.AssertExpectations(t)
}

// Подтверждение делает передачу загрузкой; лимит проверяется повторно.
func TestApprove_Success(t *testing.T) {
	mockStorage := new(MockTransferStorage)

	pending := &storage.Assignment{ID: 91, MachineID: 5, Korv: 10.0, TransferStatus: storage.TransferPending}
	approved := &storage.Assignment{ID: 91, MachineID: 5, Korv: 10.0, TransferStatus: storage.TransferApproved}

	mockStorage.On("GetAssignment", mock.Anything, int64(91)).Return(pending, nil).Once()
	mockStorage.On("GetMachine", mock.Anything, int64(5)).Return(targetMachine(), nil)
	mockStorage.On("ApproveTransfer", mock.Anything, int64(91), 80.0).Return(nil)
	mockStorage.On("GetAssignment", mock.Anything, int64(91)).Return(approved, nil).Once()

	service := NewService(mockStorage)

	a, err := service.Approve(context.Background(), 91)

	assert.NoError(t, err)
	assert.Equal(t, storage.TransferApproved, a.TransferStatus)
	mockStorage.AssertExpectations(t)
}

func TestApprove_NotPending(t *testing.T) {
	mockStorage := new(MockTransferStorage)

	mockStorage.On("GetAssignment", mock.Anything, int64(91)).
		Return(&storage.Assignment{ID: 91, TransferStatus: storage.TransferApproved}, nil)

	service := NewService(mockStorage)

	_, err := service.Approve(context.Background(), 91)

	assert.ErrorIs(t, err, storage.ErrNotFound)
	mockStorage.AssertNotCalled(t, "ApproveTransfer")
}

// Отказ удаляет строку насовсем.
func TestReject(t *testing.T) {
	mockStorage := new(MockTransferStorage)

	mockStorage.On("RejectTransfer", mock.Anything, int64(91)).Return(nil)

	service := NewService(mockStorage)

	err := service.Reject(context.Background(), 91)

	assert.NoError(t, err)
	mockStorage.AssertExpectations(t)
}
