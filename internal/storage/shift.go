package storage

import (
	"fmt"
	"time"
)

// Смены идут циклом: первая → вторая → ночная → (следующий день) первая.
const (
	ShiftFirst  = "first"
	ShiftSecond = "second"
	ShiftNight  = "night"
)

const DayLayout = "2006-01-02"

func ValidShift(shift string) bool {
	switch shift {
	case ShiftFirst, ShiftSecond, ShiftNight:
		return true
	}
	return false
}

// PrevSlot возвращает предыдущий слот (день, смена) для переноса
// незавершённых нарядов. Для первой смены это ночная смена предыдущего дня.
func PrevSlot(day, shift string) (string, string, error) {
	const op = "storage.PrevSlot"

	if !ValidShift(shift) {
		return "", "", fmt.Errorf("%s: неизвестная смена %q: %w", op, shift, ErrValidation)
	}

	d, err := time.Parse(DayLayout, day)
	if err != nil {
		return "", "", fmt.Errorf("%s: неверный формат дня %q: %w", op, day, ErrValidation)
	}

	switch shift {
	case ShiftSecond:
		return day, ShiftFirst, nil
	case ShiftNight:
		return day, ShiftSecond, nil
	default:
		return d.AddDate(0, 0, -1).Format(DayLayout), ShiftNight, nil
	}
}
