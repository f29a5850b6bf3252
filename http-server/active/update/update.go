package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"smena-golang/internal/storage"
)

type ActiveWork interface {
	Start(ctx context.Context, machineID, id int64) (*storage.Assignment, error)
	Pause(ctx context.Context, id int64) error
	EmergencySwap(ctx context.Context, machineID, currentID, newID int64) (*storage.Assignment, error)
	Complete(ctx context.Context, id int64) (int64, bool, error)
}

type Request struct {
	MachineID    int64 `json:"machine_id"`
	AssignmentID int64 `json:"assignment_id"`
	// Для экстренной смены работы
	CurrentID int64 `json:"current_id,omitempty"`
	NewID     int64 `json:"new_id,omitempty"`
}

type Response struct {
	Assignment    *storage.Assignment `json:"assignment,omitempty"`
	Status        string              `json:"status,omitempty"`
	WorkOrderID   int64               `json:"work_order_id,omitempty"`
	OrderFinished bool                `json:"order_finished,omitempty"`
	Error         string              `json:"error,omitempty"`
}

func decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (Request, bool) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Неверные данные", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, Response{Error: "распределение не найдено"})
		return
	}
	http.Error(w, "Внутренняя ошибка", http.StatusInternalServerError)
}

// StartWork — POST /api/active/start: распределение становится единственным
// активным на станке.
func StartWork(log *slog.Logger, svc ActiveWork) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.active.update.StartWork"

		req, ok := decode(w, r, log, op)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		a, err := svc.Start(ctx, req.MachineID, req.AssignmentID)
		if err != nil {
			log.Error("Ошибка запуска работы", slog.String("op", op), slog.String("error", err.Error()))
			writeError(w, r, err)
			return
		}

		render.JSON(w, r, Response{Assignment: a, Status: "started"})
	}
}

// PauseWork — POST /api/active/pause: работа снимается с активности, но
// остаётся в очереди смены.
func PauseWork(log *slog.Logger, svc ActiveWork) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.active.update.PauseWork"

		req, ok := decode(w, r, log, op)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := svc.Pause(ctx, req.AssignmentID); err != nil {
			log.Error("Ошибка приостановки", slog.String("op", op), slog.String("error", err.Error()))
			writeError(w, r, err)
			return
		}

		render.JSON(w, r, Response{Status: "paused"})
	}
}

// SwapWork — POST /api/active/swap: срочное прерывание текущей работы и
// запуск новой одним действием.
func SwapWork(log *slog.Logger, svc ActiveWork) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.active.update.SwapWork"

		req, ok := decode(w, r, log, op)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		a, err := svc.EmergencySwap(ctx, req.MachineID, req.CurrentID, req.NewID)
		if err != nil {
			log.Error("Ошибка экстренной смены работы", slog.String("op", op), slog.String("error", err.Error()))
			writeError(w, r, err)
			return
		}

		render.JSON(w, r, Response{Assignment: a, Status: "swapped"})
	}
}

// CompleteWork — POST /api/active/complete: закрытие распределения; если по
// наряду больше ничего не открыто, наряд закрывается.
func CompleteWork(log *slog.Logger, svc ActiveWork) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.active.update.CompleteWork"

		req, ok := decode(w, r, log, op)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		workOrderID, finished, err := svc.Complete(ctx, req.AssignmentID)
		if err != nil {
			log.Error("Ошибка закрытия работы", slog.String("op", op), slog.String("error", err.Error()))
			writeError(w, r, err)
			return
		}

		render.JSON(w, r, Response{Status: "completed", WorkOrderID: workOrderID, OrderFinished: finished})
	}
}
