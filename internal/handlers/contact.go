package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"eduquebec/internal/logger"
	"eduquebec/internal/models"
	"eduquebec/internal/utils/helpers"

	"go.uber.org/zap"
)

type contactWriter interface {
	Insert(ctx context.Context, msg *models.ContactMessage) error
}

type ContactHandler struct {
	repo contactWriter
}

func NewContactHandler(repo contactWriter) *ContactHandler {
	return &ContactHandler{repo: repo}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact godoc
// @Summary Сообщение обратной связи
// @Tags contact
// @Accept json
// @Produce json
// @Param input body contactRequest true "Имя, email, сообщение"
// @Success 200 {object} okResponse
// @Failure 400 {object} helpers.ErrorResponse "Не все поля заполнены"
// @Router /contact [post]
func (h *ContactHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Requête invalide.")
		return
	}

	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		helpers.Error(w, http.StatusBadRequest, "Champs requis: name, email, message.")
		return
	}

	if err := h.repo.Insert(r.Context(), msg); err != nil {
		logger.Log.Error("Ошибка сохранения сообщения обратной связи", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	helpers.JSON(w, http.StatusOK, okResponse{OK: true})
}
