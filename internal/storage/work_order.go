package storage

import "time"

// Типы и статусы нарядов. Движок двигает статус только при полном закрытии.
const (
	OrderTypeProduction = "production"
	OrderTypeRegrind    = "regrind"

	OrderStatusNew        = "new"
	OrderStatusInProgress = "in_progress"
	OrderStatusDone       = "done"
)

type WorkOrder struct {
	ID        int64     `json:"id"`
	OrderNum  string    `json:"order_num"`
	ToolCode  string    `json:"tool_code"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (w *WorkOrder) IsRegrind() bool {
	return w.Type == OrderTypeRegrind
}
