package handlers

import (
	"net/http"
	"time"

	"eduquebec/internal/utils/helpers"
)

type healthResponse struct {
	OK bool   `json:"ok"`
	TS string `json:"ts"`
}

// Health godoc
// @Summary Проверка живости сервиса
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, healthResponse{
		OK: true,
		TS: time.Now().UTC().Format(time.RFC3339),
	})
}
