package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrevSlot(t *testing.T) {
	cases := []struct {
		name      string
		day       string
		shift     string
		wantDay   string
		wantShift string
	}{
		{"вторая берёт из первой", "2026-02-10", ShiftSecond, "2026-02-10", ShiftFirst},
		{"ночная берёт из второй", "2026-02-10", ShiftNight, "2026-02-10", ShiftSecond},
		{"первая берёт из ночной вчера", "2026-02-10", ShiftFirst, "2026-02-09", ShiftNight},
		{"переход через месяц", "2026-03-01", ShiftFirst, "2026-02-28", ShiftNight},
		{"переход через год", "2026-01-01", ShiftFirst, "2025-12-31", ShiftNight},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			day, shift, err := PrevSlot(tc.day, tc.shift)

			assert.NoError(t, err)
			assert.Equal(t, tc.wantDay, day)
			assert.Equal(t, tc.wantShift, shift)
		})
	}
}

func TestPrevSlot_UnknownShift(t *testing.T) {
	_, _, err := PrevSlot("2026-02-10", "fourth")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestPrevSlot_BadDay(t *testing.T) {
	_, _, err := PrevSlot("10.02.2026", ShiftFirst)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidShift(t *testing.T) {
	assert.True(t, ValidShift(ShiftFirst))
	assert.True(t, ValidShift(ShiftSecond))
	assert.True(t, ValidShift(ShiftNight))
	assert.False(t, ValidShift(""))
	assert.False(t, ValidShift("day"))
}
