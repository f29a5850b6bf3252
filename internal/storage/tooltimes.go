package storage

import "time"

// ToolTime — норма времени операции в минутах для пары (инструмент, класс станка).
type ToolTime struct {
	ToolCode     string  `json:"tool_code"`
	MachineClass string  `json:"machine_class"`
	Minutes      float64 `json:"minutes"`
}

// RegrindRate — отдельная таблица норм для заточных нарядов, ключ по коду
// инструмента (считается только фрезерная операция).
type RegrindRate struct {
	ToolCode string  `json:"tool_code"`
	Minutes  float64 `json:"minutes"`
}

// PendingRateUpdate — вручную введённая норма, ждёт подтверждения планировщика.
// В справочники попадает только через finalize (двухфазная запись).
type PendingRateUpdate struct {
	ID           int64     `json:"id"`
	ToolCode     string    `json:"tool_code"`
	MachineClass string    `json:"machine_class"`
	Minutes      float64   `json:"minutes"`
	IsRegrind    bool      `json:"is_regrind"`
	CreatedAt    time.Time `json:"created_at"`
}
