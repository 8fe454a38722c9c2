package handlers

import (
	"encoding/json"
	"net/http"

	"eduquebec/internal/utils/helpers"
)

type CVHandler struct{}

func NewCVHandler() *CVHandler {
	return &CVHandler{}
}

type cvRequest struct {
	FullName string `json:"full_name"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
}

type cvResponse struct {
	OK      bool      `json:"ok"`
	Message string    `json:"message"`
	Data    cvRequest `json:"data"`
}

// Generate godoc
// @Summary Генерация CV (заглушка)
// @Description Пока возвращает принятые данные; генерация DOCX по шаблону — позже.
// @Tags cv
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body cvRequest true "Данные CV"
// @Success 200 {object} cvResponse
// @Router /cv/generate [post]
func (h *CVHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req cvRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Requête invalide.")
		return
	}

	helpers.JSON(w, http.StatusOK, cvResponse{
		OK:      true,
		Message: "Génération CV (placeholder).",
		Data:    req,
	})
}
