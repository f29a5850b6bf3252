package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"smena-golang/internal/storage"
)

type PendingRates interface {
	GetPendingRates(ctx context.Context) ([]storage.PendingRateUpdate, error)
}

// GetPendingRates — GET /api/catalog/pending: вручную введённые нормы,
// ждущие записи в справочник.
func GetPendingRates(log *slog.Logger, result PendingRates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.get.GetPendingRates"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := result.GetPendingRates(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Ошибка при получении очереди норм")
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, items)
	}
}
