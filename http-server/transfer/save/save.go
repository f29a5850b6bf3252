package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"smena-golang/internal/service/transfer"
	"smena-golang/internal/storage"
)

type TransferProposer interface {
	ProposeOneWay(ctx context.Context, leg transfer.Leg) (*storage.Assignment, error)
	ProposeSwap(ctx context.Context, first, second transfer.Leg) (*storage.Assignment, *storage.Assignment, error)
}

type Response struct {
	Assignment *storage.Assignment `json:"assignment,omitempty"`
	Error      string              `json:"error,omitempty"`
}

type SwapRequest struct {
	First  transfer.Leg `json:"first"`
	Second transfer.Leg `json:"second"`
}

type SwapResponse struct {
	First  *storage.Assignment `json:"first,omitempty"`
	Second *storage.Assignment `json:"second,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func writeProposeError(w http.ResponseWriter, r *http.Request, err error) string {
	switch {
	case errors.Is(err, storage.ErrValidation):
		w.WriteHeader(http.StatusBadRequest)
		return "неверные данные передачи"
	case errors.Is(err, storage.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		return "наряд или станок не найден"
	case errors.Is(err, storage.ErrMaintenance):
		w.WriteHeader(http.StatusConflict)
		return "принимающий станок на обслуживании"
	case errors.Is(err, storage.ErrCapacityExceeded):
		w.WriteHeader(http.StatusConflict)
		return "принимающему станку не хватает лимита"
	default:
		w.WriteHeader(http.StatusInternalServerError)
		return "внутренняя ошибка"
	}
}

// SaveOneWay — POST /api/transfers: односторонняя передача, строка ждёт
// подтверждения оператором принимающего станка.
func SaveOneWay(log *slog.Logger, svc TransferProposer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.transfer.save.SaveOneWay"

		var leg transfer.Leg
		if err := json.NewDecoder(r.Body).Decode(&leg); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		a, err := svc.ProposeOneWay(ctx, leg)
		if err != nil {
			log.Error("Ошибка предложения передачи", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: writeProposeError(w, r, err)})
			return
		}

		render.JSON(w, r, Response{Assignment: a})
	}
}

// SaveSwap — POST /api/transfers/swap: обмен работой, две связанные строки.
func SaveSwap(log *slog.Logger, svc TransferProposer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.transfer.save.SaveSwap"

		var req SwapRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		first, second, err := svc.ProposeSwap(ctx, req.First, req.Second)
		if err != nil {
			log.Error("Ошибка предложения обмена", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, SwapResponse{Error: writeProposeError(w, r, err)})
			return
		}

		render.JSON(w, r, SwapResponse{First: first, Second: second})
	}
}
