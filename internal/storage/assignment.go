package storage

import "time"

// Статусы переноса работы между станками.
const (
	TransferNone     = "none"
	TransferPending  = "pending_approval"
	TransferApproved = "approved"
)

const StatusAssigned = "assigned"

// Assignment — частичное распределение наряда на станок в конкретную смену.
// Строка учитывается в загрузке и в остатке наряда только если она не закрыта
// (released_at IS NULL), не замещена переносом смены и не ждёт подтверждения.
type Assignment struct {
	ID             int64      `json:"id"`
	WorkOrderID    int64      `json:"work_order_id"`
	MachineID      int64      `json:"machine_id"`
	Day            string     `json:"day"` // формат 2006-01-02
	Shift          string     `json:"shift"`
	Department     string     `json:"department"`
	Korv           float64    `json:"korv"` // единицы загрузки, 2 знака
	Quantity       int        `json:"quantity"`
	Status         string     `json:"status"`
	IsActive       bool       `json:"is_active"`
	IsCompleted    bool       `json:"is_completed"`
	TransferStatus string     `json:"transfer_status"`
	RolledOverFrom *int64     `json:"rolled_over_from"`
	Superseded     bool       `json:"superseded"`
	Description    string     `json:"description,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at"`
	ReleasedAt     *time.Time `json:"released_at"`
}

// ShiftLoad — строка отчёта по загрузке: сколько КОРВ занято на станке в смене.
type ShiftLoad struct {
	MachineID   int64   `json:"machine_id"`
	MachineName string  `json:"machine_name"`
	Shift       string  `json:"shift"`
	UsedKorv    float64 `json:"used_korv"`
	MaxKorv     float64 `json:"max_korv"`
}
