package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"smena-golang/internal/storage"
)

type AdminUpdater interface {
	UpdateMachine(ctx context.Context, m storage.MachineConfig) error
	UpdateRate(ctx context.Context, r storage.PendingRateUpdate) error
}

// UpdateMachineAdmin — PUT /api/admin/machines/update: лимит смены и флаг
// обслуживания.
func UpdateMachineAdmin(log *slog.Logger, upd AdminUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.update.UpdateMachineAdmin"

		var req storage.MachineConfig
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		if req.ID == 0 || req.MaxKorv <= 0 {
			http.Error(w, "Неверные данные станка", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := upd.UpdateMachine(ctx, req); err != nil {
			log.Error("Ошибка обновления станка", slog.String("op", op), slog.String("error", err.Error()))

			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Станок не найден", http.StatusNotFound)
				return
			}
			http.Error(w, "Ошибка обновления", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status":     strconv.Itoa(http.StatusOK),
			"machine_id": req.ID,
		})
	}
}

// UpdateRateAdmin — PUT /api/admin/rates/update: прямая правка нормы в
// справочнике (обычный путь — очередь через allocate + finalize).
func UpdateRateAdmin(log *slog.Logger, upd AdminUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.update.UpdateRateAdmin"

		var req storage.PendingRateUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		if req.ToolCode == "" || req.Minutes <= 0 || (!req.IsRegrind && !storage.ValidMachineClass(req.MachineClass)) {
			http.Error(w, "Неверные данные нормы", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := upd.UpdateRate(ctx, req); err != nil {
			log.Error("Ошибка обновления нормы", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Ошибка обновления", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status": strconv.Itoa(http.StatusOK),
		})
	}
}
