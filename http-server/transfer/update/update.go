package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"smena-golang/internal/storage"
)

type TransferDecider interface {
	Approve(ctx context.Context, id int64) (*storage.Assignment, error)
	Reject(ctx context.Context, id int64) error
}

type Response struct {
	Assignment *storage.Assignment `json:"assignment,omitempty"`
	Status     string              `json:"status,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// ApproveTransfer — POST /api/transfers/approve/{id}: только после
// подтверждения передача считается загрузкой. Лимит принимающего станка
// проверяется повторно.
func ApproveTransfer(log *slog.Logger, svc TransferDecider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.transfer.update.ApproveTransfer"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		a, err := svc.Approve(ctx, id)
		if err != nil {
			log.Error("Ошибка подтверждения передачи", slog.String("op", op), slog.String("error", err.Error()))

			switch {
			case errors.Is(err, storage.ErrNotFound):
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, Response{Error: "неподтверждённая передача не найдена"})
			case errors.Is(err, storage.ErrCapacityExceeded):
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, Response{Error: "принимающему станку не хватает лимита"})
			default:
				http.Error(w, "Внутренняя ошибка", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, Response{Assignment: a, Status: "approved"})
	}
}

// RejectTransfer — POST /api/transfers/reject/{id}: отказ удаляет строку
// насовсем, загрузка не возникала.
func RejectTransfer(log *slog.Logger, svc TransferDecider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.transfer.update.RejectTransfer"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := svc.Reject(ctx, id); err != nil {
			log.Error("Ошибка отказа от передачи", slog.String("op", op), slog.String("error", err.Error()))

			if errors.Is(err, storage.ErrNotFound) {
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, Response{Error: "неподтверждённая передача не найдена"})
				return
			}
			http.Error(w, "Внутренняя ошибка", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Status: "rejected"})
	}
}
