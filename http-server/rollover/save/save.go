package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"smena-golang/internal/service/rollover"
	"smena-golang/internal/storage"
)

type RolloverRunner interface {
	Rollover(ctx context.Context, machineID int64, day, shift string) (int, error)
	RolloverAll(ctx context.Context, day, shift string) ([]rollover.MachineResult, error)
}

type Request struct {
	// 0 — перенос по всем активным станкам
	MachineID int64  `json:"machine_id,omitempty"`
	Day       string `json:"day"`
	Shift     string `json:"shift"`
}

type Response struct {
	Carried int                      `json:"carried"`
	Results []rollover.MachineResult `json:"results,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// RunRollover — POST /api/rollover: перенос незавершённого из предыдущего
// слота в указанный. Ошибка одного станка не мешает остальным.
func RunRollover(log *slog.Logger, svc RolloverRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rollover.save.RunRollover"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if req.MachineID != 0 {
			carried, err := svc.Rollover(ctx, req.MachineID, req.Day, req.Shift)
			if err != nil {
				log.Error("Ошибка переноса смены", slog.String("op", op), slog.String("error", err.Error()))

				switch {
				case errors.Is(err, storage.ErrValidation):
					w.WriteHeader(http.StatusBadRequest)
					render.JSON(w, r, Response{Error: "неверные day/shift"})
				case errors.Is(err, storage.ErrNotFound):
					w.WriteHeader(http.StatusNotFound)
					render.JSON(w, r, Response{Error: "станок не найден"})
				default:
					http.Error(w, "Внутренняя ошибка", http.StatusInternalServerError)
				}
				return
			}

			render.JSON(w, r, Response{Carried: carried})
			return
		}

		results, err := svc.RolloverAll(ctx, req.Day, req.Shift)
		if err != nil {
			log.Error("Ошибка общего переноса смены", slog.String("op", op), slog.String("error", err.Error()))

			if errors.Is(err, storage.ErrValidation) {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, Response{Error: "неверные day/shift"})
				return
			}
			http.Error(w, "Внутренняя ошибка", http.StatusInternalServerError)
			return
		}

		total := 0
		for _, res := range results {
			total += res.Carried
		}

		render.JSON(w, r, Response{Carried: total, Results: results})
	}
}
