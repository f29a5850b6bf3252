package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"smena-golang/internal/storage"
)

type AdminSaver interface {
	SaveMachine(ctx context.Context, m storage.MachineConfig) (int64, error)
}

type Response struct {
	MachineID int64  `json:"machine_id"`
	Status    string `json:"status"`
	Error     string `json:"error"`
}

// SaveMachineAdmin — POST /api/admin/machines/save: регистрация станка.
// Класс задаётся явно, по названию ничего не угадывается.
func SaveMachineAdmin(log *slog.Logger, res AdminSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.save.SaveMachineAdmin"

		var req storage.MachineConfig
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Неверный JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Неверные данные", http.StatusBadRequest)
			return
		}

		if req.Name == "" || !storage.ValidMachineClass(req.Class) || req.MaxKorv <= 0 {
			http.Error(w, "Неверные данные станка", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := res.SaveMachine(ctx, req)
		if err != nil {
			log.Error("Ошибка при сохранении станка", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "не удалось сохранить станок"})
			return
		}

		render.JSON(w, r, Response{
			MachineID: id,
			Status:    strconv.Itoa(http.StatusOK),
			Error:     "",
		})
	}
}
