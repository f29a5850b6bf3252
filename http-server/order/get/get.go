package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"smena-golang/internal/storage"
)

type WorkOrderReader interface {
	GetWorkOrders(ctx context.Context, orderNum, orderType string) ([]storage.WorkOrder, error)
}

// GetWorkOrders — GET /api/orders?order_num=&type=: наряды для планёрки,
// с фильтром по номеру и типу (production/regrind).
func GetWorkOrders(log *slog.Logger, result WorkOrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.order.get.GetWorkOrders"

		orderNum := r.URL.Query().Get("order_num")
		orderType := r.URL.Query().Get("type")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := result.GetWorkOrders(ctx, orderNum, orderType)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Ошибка при получении нарядов")
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, items)
	}
}
