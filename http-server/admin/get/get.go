package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"smena-golang/internal/storage"
)

type AdminReader interface {
	GetMachines(ctx context.Context) ([]storage.MachineConfig, error)
	GetRegrindRates(ctx context.Context) ([]storage.RegrindRate, error)
}

// GetMachinesAdmin — GET /api/admin/machines: реестр станков с лимитами и
// флагами обслуживания.
func GetMachinesAdmin(log *slog.Logger, result AdminReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.get.GetMachinesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		machines, err := result.GetMachines(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Ошибка при получении станков")
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, machines)
	}
}

// GetRegrindRatesAdmin — GET /api/admin/rates/regrind
func GetRegrindRatesAdmin(log *slog.Logger, result AdminReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.get.GetRegrindRatesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		rates, err := result.GetRegrindRates(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Ошибка при получении норм заточки")
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, rates)
	}
}
