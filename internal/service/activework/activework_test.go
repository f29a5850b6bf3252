package activework

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"smena-golang/internal/storage"
)

type MockActiveStorage struct {
	mock.Mock
}

func (m *MockActiveStorage) GetAssignment(ctx context.Context, id int64) (*storage.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Assignment), args.Error(1)
}

func (m *MockActiveStorage) StartAssignment(ctx context.Context, machineID, id int64) error {
	args := m.Called(ctx, machineID, id)
	return args.Error(0)
}

func (m *MockActiveStorage) PauseAssignment(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockActiveStorage) CompleteAssignment(ctx context.Context, id int64) (int64, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestStart(t *testing.T) {
	mockStorage := new(MockActiveStorage)

	mockStorage.On("StartAssignment", mock.Anything, int64(3), int64(42)).Return(nil)
	mockStorage.On("GetAssignment", mock.Anything, int64(42)).
		Return(&storage.Assignment{ID: 42, MachineID: 3, IsActive: true}, nil)

	service := NewService(discardLogger(), mockStorage)

	a, err := service.Start(context.Background(), 3, 42)

	assert.NoError(t, err)
	assert.True(t, a.IsActive)
	mockStorage.AssertExpectations(t)
}

func TestStart_NotFound(t *testing.T) {
	mockStorage := new(MockActiveStorage)

	mockStorage.On("StartAssignment", mock.Anything, int64(3), int64(42)).
		Return(fmt.Errorf("распределение не на этом станке: %w", storage.ErrNotFound))

	service := NewService(discardLogger(), mockStorage)

	_, err := service.Start(context.Background(), 3, 42)

	assert.ErrorIs(t, err, storage.ErrNotFound)
	mockStorage.AssertNotCalled(t, "GetAssignment")
}

func TestPause(t *testing.T) {
	mockStorage := new(MockActiveStorage)

	mockStorage.On("PauseAssignment", mock.Anything, int64(42)).Return(nil)

	service := NewService(discardLogger(), mockStorage)

	err := service.Pause(context.Background(), 42)

	assert.NoError(t, err)
	mockStorage.AssertExpectations(t)
}

// Срочное прерывание: текущая работа ставится на паузу, новая запускается.
func TestEmergencySwap(t *testing.T) {
	mockStorage := new(MockActiveStorage)

	mockStorage.On("PauseAssignment", mock.Anything, int64(42)).Return(nil)
	mockStorage.On("StartAssignment", mock.Anything, int64(3), int64(55)).Return(nil)
	mockStorage.On("GetAssignment", mock.Anything, int64(55)).
		Return(&storage.Assignment{ID: 55, MachineID: 3, IsActive: true}, nil)

	service := NewService(discardLogger(), mockStorage)

	a, err := service.EmergencySwap(context.Background(), 3, 42, 55)

	assert.NoError(t, err)
	assert.Equal(t, int64(55), a.ID)
	mockStorage.AssertExpectations(t)
}

func TestEmergencySwap_PauseFails(t *testing.T) {
	mockStorage := new(MockActiveStorage)

	mockStorage.On("PauseAssignment", mock.Anything, int64(42)).
		Return(fmt.Errorf("нет строки: %w", storage.ErrNotFound))

	service := NewService(discardLogger(), mockStorage)

	_, err := service.EmergencySwap(context.Background(), 3, 42, 55)

	assert.ErrorIs(t, err, storage.ErrNotFound)
	mockStorage.AssertNotCalled(t, "StartAssignment")
}

// Закрытие последней открытой строки двигает статус наряда ровно один раз.
func TestComplete_AdvancesOrder(t *testing.T) {
	mockStorage := new(MockActiveStorage)

	mockStorage.On("CompleteAssignment", mock.Anything, int64(42)).Return(int64(7), true, nil)

	service := NewService(discardLogger(), mockStorage)

	workOrderID, advanced, err := service.Complete(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), workOrderID)
	assert.True(t, advanced)
	mockStorage.AssertExpectations(t)
}

func TestComplete_OtherRowsStillOpen(t *testing.T) {
	mockStorage := new(MockActiveStorage)

	mockStorage.On("CompleteAssignment", mock.Anything, int64(42)).Return(int64(7), false, nil)

	service := NewService(discardLogger(), mockStorage)

	_, advanced, err := service.Complete(context.Background(), 42)

	assert.NoError(t, err)
	assert.False(t, advanced)
}
