// Package korv — перевод минут операций в единицы загрузки станка.
// 1 КОРВ = 5 минут работы; лимиты станков на смену задаются в КОРВ,
// чтобы не зависеть от абсолютных минут.
package korv

import "math"

const minutesPerUnit = 5.0

// round2 — округление до 2 знаков, половина вверх.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MinutesToUnit переводит минуты в КОРВ. Отрицательные значения считаются нулём.
func MinutesToUnit(minutes float64) float64 {
	if minutes < 0 {
		minutes = 0
	}
	return round2(minutes / minutesPerUnit)
}

func UnitToMinutes(unit float64) float64 {
	if unit < 0 {
		unit = 0
	}
	return unit * minutesPerUnit
}

// UnitPerPiece суммирует нормы операций (в минутах) на одну штуку и
// переводит в КОРВ.
func UnitPerPiece(times ...float64) float64 {
	var total float64
	for _, t := range times {
		if t > 0 {
			total += t
		}
	}
	return MinutesToUnit(total)
}

// TotalUnit — загрузка на всё количество, 2 знака.
func TotalUnit(perPiece float64, qty int) float64 {
	if perPiece < 0 || qty <= 0 {
		return 0
	}
	return round2(perPiece * float64(qty))
}
