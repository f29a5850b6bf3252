package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"smena-golang/internal/storage"
)

type AssignmentReader interface {
	GetAssignmentsBySlot(ctx context.Context, machineID int64, day, shift string) ([]storage.Assignment, error)
	GetAssignmentsByWorkOrder(ctx context.Context, workOrderID int64, department string) ([]storage.Assignment, error)
}

// GetBySlot — GET /api/assignments?machine_id=&day=&shift=
func GetBySlot(log *slog.Logger, result AssignmentReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.assignment.get.GetBySlot"

		machineID, err := strconv.ParseInt(r.URL.Query().Get("machine_id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid machine_id", http.StatusBadRequest)
			return
		}

		day := r.URL.Query().Get("day")
		shift := r.URL.Query().Get("shift")
		if day == "" || !storage.ValidShift(shift) {
			http.Error(w, "Неверные day/shift", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := result.GetAssignmentsBySlot(ctx, machineID, day, shift)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Ошибка при получении распределений смены")
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, items)
	}
}

// GetByWorkOrder — GET /api/assignments/by-order?work_order_id=&department=
func GetByWorkOrder(log *slog.Logger, result AssignmentReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.assignment.get.GetByWorkOrder"

		workOrderID, err := strconv.ParseInt(r.URL.Query().Get("work_order_id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid work_order_id", http.StatusBadRequest)
			return
		}

		department := r.URL.Query().Get("department")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		items, err := result.GetAssignmentsByWorkOrder(ctx, workOrderID, department)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Ошибка при получении распределений наряда")
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, items)
	}
}
