package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type RateFinalizer interface {
	FinalizePendingRates(ctx context.Context) (int, error)
}

type Response struct {
	Committed int    `json:"committed"`
	Error     string `json:"error,omitempty"`
}

// FinalizeRates — POST /api/catalog/finalize: вторая фаза записи ручных норм —
// перенос очереди в справочники одной транзакцией (конец планёрки).
func FinalizeRates(log *slog.Logger, svc RateFinalizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.catalog.update.FinalizeRates"

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		committed, err := svc.FinalizePendingRates(ctx)
		if err != nil {
			log.Error("Ошибка записи норм в справочник", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Внутренняя ошибка", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Committed: committed})
	}
}
