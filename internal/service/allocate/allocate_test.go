package allocate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"smena-golang/internal/storage"
)

type MockAllocateStorage struct {
	mock.Mock
}

func (m *MockAllocateStorage) GetWorkOrder(ctx context.Context, id int64) (*storage.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.WorkOrder), args.Error(1)
}

func (m *MockAllocateStorage) GetMachine(ctx context.Context, id int64) (*storage.MachineConfig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.MachineConfig), args.Error(1)
}

func (m *MockAllocateStorage) SumAssignedQuantity(ctx context.Context, workOrderID int64, department string) (int, error) {
	args := m.Called(ctx, workOrderID, department)
	return args.Int(0), args.Error(1)
}

func (m *MockAllocateStorage) GetToolMinutes(ctx context.Context, toolCode, machineClass string) (float64, error) {
	args := m.Called(ctx, toolCode, machineClass)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAllocateStorage) GetRegrindMinutes(ctx context.Context, toolCode string) (float64, error) {
	args := m.Called(ctx, toolCode)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAllocateStorage) AllocateAssignment(ctx context.Context, a storage.Assignment, maxKorv float64, pending *storage.PendingRateUpdate) (int64, error) {
	args := m.Called(ctx, a, maxKorv, pending)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAllocateStorage) GetAssignment(ctx context.Context, id int64) (*storage.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Assignment), args.Error(1)
}

func productionOrder() *storage.WorkOrder {
	return &storage.WorkOrder{
		ID:        7,
		OrderNum:  "N-1042",
		ToolCode:  "FR-12",
		Type:      storage.OrderTypeProduction,
		Quantity:  30,
		Status:    storage.OrderStatusInProgress,
		CreatedAt: time.Now(),
	}
}

func millingMachine() *storage.MachineConfig {
	return &storage.MachineConfig{
		ID:      3,
		Name:    "6Р82",
		Class:   storage.ClassMilling,
		MaxKorv: 100,
	}
}

func baseRequest() Request {
	return Request{
		WorkOrderID: 7,
		MachineID:   3,
		Day:         "2026-02-10",
		Shift:       storage.ShiftFirst,
		Department:  "mech",
		Quantity:    10,
	}
}

// Норма 25 минут на штуку, 10 штук: (25*10)/5 = 50.00 КОРВ.
func TestAllocate_Success(t *testing.T) {
	mockStorage := new(MockAllocateStorage)

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(productionOrder(), nil)
	mockStorage.On("GetMachine", mock.Anything, int64(3)).Return(millingMachine(), nil)
	mockStorage.On("SumAssignedQuantity", mock.Anything, int64(7), "mech").Return(5, nil)
	mockStorage.On("GetToolMinutes", mock.Anything, "FR-12", storage.ClassMilling).Return(25.0, nil)

	mockStorage.On("AllocateAssignment", mock.Anything, mock.MatchedBy(func(a storage.Assignment) bool {
		return a.Korv == 50.0 && a.Quantity == 10 && a.MachineID == 3
	}), 100.0, (*storage.PendingRateUpdate)(nil)).Return(int64(42), nil)

	created := &storage.Assignment{ID: 42, WorkOrderID: 7, MachineID: 3, Korv: 50.0, Quantity: 10, Status: storage.StatusAssigned}
	mockStorage.On("GetAssignment", mock.Anything, int64(42)).Return(created, nil)

	service := NewService(mockStorage)

	a, err := service.Allocate(context.Background(), baseRequest())

	assert.NoError(t, err)
	assert.Equal(t, int64(42), a.ID)
	assert.Equal(t, 50.0, a.Korv)

	mockStorage.AssertExpectations(t)
}

// Заточной наряд берёт норму из таблицы заточки, общий справочник не трогается.
func TestAllocate_RegrindUsesRegrindTable(t *testing.T) {
	mockStorage := new(MockAllocateStorage)

	order := productionOrder()
	order.Type = storage.OrderTypeRegrind

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(order, nil)
	mockStorage.On("GetMachine", mock.Anything, int64(3)).Return(millingMachine(), nil)
	mockStorage.On("SumAssignedQuantity", mock.Anything, int64(7), "mech").Return(0, nil)
	mockStorage.On("GetRegrindMinutes", mock.Anything, "FR-12").Return(15.0, nil)

	// (15*4)/5 = 12.00
	mockStorage.On("AllocateAssignment", mock.Anything, mock.MatchedBy(func(a storage.Assignment) bool {
		return a.Korv == 12.0
	}), 100.0, (*storage.PendingRateUpdate)(nil)).Return(int64(43), nil)
	mockStorage.On("GetAssignment", mock.Anything, int64(43)).Return(&storage.Assignment{ID: 43, Korv: 12.0}, nil)

	service := NewService(mockStorage)

	req := baseRequest()
	req.Quantity = 4

	a, err := service.Allocate(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, 12.0, a.Korv)
	mockStorage.AssertNotCalled(t, "GetToolMinutes")
	mockStorage.AssertExpectations(t)
}

func TestAllocate_QuantityExceedsRemaining(t *testing.T) {
	mockStorage := new(MockAllocateStorage)

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(productionOrder(), nil)
	mockStorage.On("GetMachine", mock.Anything, int64(3)).Return(millingMachine(), nil)
	// уже распределено 25 из 30 — остаток 5, запрошено 10
	mockStorage.On("SumAssignedQuantity", mock.Anything, int64(7), "mech").Return(25, nil)

	service := NewService(mockStorage)

	_, err := service.Allocate(context.Background(), baseRequest())

	assert.ErrorIs(t, err, storage.ErrValidation)
	mockStorage.AssertNotCalled(t, "AllocateAssignment")
}

func TestAllocate_ZeroQuantity(t *testing.T) {
	service := NewService(new(MockAllocateStorage))

	req := baseRequest()
	req.Quantity = 0

	_, err := service.Allocate(context.Background(), req)

	assert.ErrorIs(t, err, storage.ErrValidation)
}

func TestAllocate_Maintenance(t *testing.T) {
	mockStorage := new(MockAllocateStorage)

	machine := millingMachine()
	machine.Maintenance = true

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(productionOrder(), nil)
	mockStorage.On("GetMachine", mock.Anything, int64(3)).Return(machine, nil)
	mockStorage.On("SumAssignedQuantity", mock.Anything, int64(7), "mech").Return(0, nil)

	service := NewService(mockStorage)

	_, err := service.Allocate(context.Background(), baseRequest())

	assert.ErrorIs(t, err, storage.ErrMaintenance)
	mockStorage.AssertNotCalled(t, "AllocateAssignment")
}

// Лимит 100, занято 95, запрошено ещё 10 — вставка отклоняется, записи нет.
func TestAllocate_CapacityExceeded(t *testing.T) {
	mockStorage := new(MockAllocateStorage)

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(productionOrder(), nil)
	mockStorage.On("GetMachine", mock.Anything, int64(3)).Return(millingMachine(), nil)
	mockStorage.On("SumAssignedQuantity", mock.Anything, int64(7), "mech").Return(0, nil)
	mockStorage.On("GetToolMinutes", mock.Anything, "FR-12", storage.ClassMilling).Return(5.0, nil)

	capErr := fmt.Errorf("занято 95.00 из 100.00: %w", storage.ErrCapacityExceeded)
	mockStorage.On("AllocateAssignment", mock.Anything, mock.Anything, 100.0, (*storage.PendingRateUpdate)(nil)).
		Return(int64(0), capErr)

	service := NewService(mockStorage)

	_, err := service.Allocate(context.Background(), baseRequest())

	assert.ErrorIs(t, err, storage.ErrCapacityExceeded)
	mockStorage.AssertNotCalled(t, "GetAssignment")
}

func TestAllocate_MissingTimeData(t *testing.T) {
	mockStorage := new(MockAllocateStorage)

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(productionOrder(), nil)
	mockStorage.On("GetMachine", mock.Anything, int64(3)).Return(millingMachine(), nil)
	mockStorage.On("SumAssignedQuantity", mock.Anything, int64(7), "mech").Return(0, nil)
	mockStorage.On("GetToolMinutes", mock.Anything, "FR-12", storage.ClassMilling).
		Return(0.0, fmt.Errorf("нет нормы: %w", storage.ErrMissingTimeData))

	service := NewService(mockStorage)

	_, err := service.Allocate(context.Background(), baseRequest())

	assert.ErrorIs(t, err, storage.ErrMissingTimeData)
	mockStorage.AssertNotCalled(t, "AllocateAssignment")
}

// Ручная норма спасает вызов и встаёт в очередь подтверждения справочника.
func TestAllocate_ManualTimeQueued(t *testing.T) {
	mockStorage := new(MockAllocateStorage)

	mockStorage.On("GetWorkOrder", mock.Anything, int64(7)).Return(productionOrder(), nil)
	mockStorage.On("GetMachine", mock.Anything, int64(3)).Return(millingMachine(), nil)
	mockStorage.On("SumAssignedQuantity", mock.Anything, int64(7), "mech").Return(0, nil)
	mockStorage.On("GetToolMinutes", mock.Anything, "FR-12", storage.ClassMilling).
		Return(0.0, fmt.Errorf("нет нормы: %w", storage.ErrMissingTimeData))

	mockStorage.On("AllocateAssignment", mock.Anything, mock.MatchedBy(func(a storage.Assignment) bool {
		// (20*10)/5 = 40.00
		return a.Korv == 40.0
	}), 100.0, mock.MatchedBy(func(p *storage.PendingRateUpdate) bool {
		return p != nil && p.ToolCode == "FR-12" && p.Minutes == 20.0 && !p.IsRegrind
	})).Return(int64(44), nil)
	mockStorage.On("GetAssignment", mock.Anything, int64(44)).Return(&storage.Assignment{ID: 44, Korv: 40.0}, nil)

	service := NewService(mockStorage)

	manual := 20.0
	req := baseRequest()
	req.ManualMinutes = &manual

	a, err := service.Allocate(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, int64(44), a.ID)
	mockStorage.AssertExpectations(t)
}
