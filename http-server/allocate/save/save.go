package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"smena-golang/internal/service/allocate"
	"smena-golang/internal/storage"
)

type Allocator interface {
	Allocate(ctx context.Context, req allocate.Request) (*storage.Assignment, error)
}

type Response struct {
	Assignment *storage.Assignment `json:"assignment,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// SaveAllocation — POST /api/assignments: проверка и фиксация частичного
// распределения наряда на станок.
func SaveAllocation(log *slog.Logger, svc Allocator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.allocate.save.SaveAllocation"

		var req allocate.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		a, err := svc.Allocate(ctx, req)
		if err != nil {
			log.Error("Ошибка распределения", slog.String("op", op), slog.String("error", err.Error()))

			switch {
			case errors.Is(err, storage.ErrValidation):
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, Response{Error: "неверное количество или смена"})
			case errors.Is(err, storage.ErrNotFound):
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, Response{Error: "наряд или станок не найден"})
			case errors.Is(err, storage.ErrMaintenance):
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, Response{Error: "станок на обслуживании"})
			case errors.Is(err, storage.ErrCapacityExceeded):
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, Response{Error: "превышен лимит загрузки смены"})
			case errors.Is(err, storage.ErrConcurrencyConflict):
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, Response{Error: "конфликт распределения, повторите"})
			case errors.Is(err, storage.ErrMissingTimeData):
				w.WriteHeader(http.StatusUnprocessableEntity)
				render.JSON(w, r, Response{Error: "нет нормы времени, укажите ручную"})
			default:
				http.Error(w, "Внутренняя ошибка", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, Response{Assignment: a})
	}
}
