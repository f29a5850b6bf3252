package storage

import "errors"

// Типовые ошибки движка распределения. Обработчики мапят их на HTTP статусы
// через errors.Is, слои ниже оборачивают через fmt.Errorf с %w.
var (
	ErrValidation          = errors.New("неверное количество")
	ErrCapacityExceeded    = errors.New("превышена загрузка станка на смену")
	ErrMaintenance         = errors.New("станок на обслуживании")
	ErrMissingTimeData     = errors.New("нет нормы времени для инструмента")
	ErrNotFound            = errors.New("запись не найдена")
	ErrConcurrencyConflict = errors.New("конфликт одновременного распределения")
)
