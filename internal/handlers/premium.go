package handlers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"eduquebec/internal/logger"
	"eduquebec/internal/middleware"
	"eduquebec/internal/services"
	"eduquebec/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PremiumHandler struct {
	service *services.PremiumService
}

func NewPremiumHandler(service *services.PremiumService) *PremiumHandler {
	return &PremiumHandler{service: service}
}

type statusResponse struct {
	Status    string     `json:"status"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type signedURLResponse struct {
	URL string `json:"url"`
}

// Status godoc
// @Summary Текущий статус подписки пользователя
// @Tags premium
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} statusResponse
// @Router /premium/status [get]
func (h *PremiumHandler) Status(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Non authentifié.")
		return
	}

	sub, err := h.service.Status(r.Context(), user.ID)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	resp := statusResponse{Status: "inactive"}
	if sub != nil {
		resp.Status = sub.Status
		resp.UpdatedAt = &sub.UpdatedAt
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// ListFiles godoc
// @Summary Каталог премиум-файлов
// @Tags premium
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.PremiumFile
// @Router /premium/files [get]
func (h *PremiumHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, h.service.ListFiles())
}

// SignedURL godoc
// @Summary Получить ссылку на премиум-файл
// @Description С настроенным объектным хранилищем — подписанная временная
// @Description ссылка; без него — ссылка на прямое скачивание с сервера.
// @Tags premium
// @Security ApiKeyAuth
// @Produce json
// @Param file_id path string true "ID файла из каталога"
// @Success 200 {object} signedURLResponse
// @Failure 404 {object} helpers.ErrorResponse "Файл не найден в каталоге"
// @Failure 500 {object} helpers.ErrorResponse "Файл недоступен на сервере"
// @Router /premium/signed-url/{file_id} [get]
func (h *PremiumHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Non authentifié.")
		return
	}

	fileID := mux.Vars(r)["file_id"]
	url, err := h.service.IssueSignedURL(r.Context(), user.ID, fileID)
	switch {
	case errors.Is(err, services.ErrFileNotFound):
		helpers.Error(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, services.ErrFileUnavailable):
		helpers.Error(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		logger.Log.Error("Ошибка выдачи ссылки на файл", zap.String("file_id", fileID), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	helpers.JSON(w, http.StatusOK, signedURLResponse{URL: url})
}

// Download godoc
// @Summary Скачать премиум-файл с сервера
// @Tags premium
// @Security ApiKeyAuth
// @Produce octet-stream
// @Param file_id path string true "ID файла из каталога"
// @Success 200 {file} file
// @Failure 404 {object} helpers.ErrorResponse "Файл не найден"
// @Router /premium/download/{file_id} [get]
func (h *PremiumHandler) Download(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Non authentifié.")
		return
	}

	fileID := mux.Vars(r)["file_id"]
	meta, path, err := h.service.ResolveDownload(r.Context(), user.ID, fileID)
	switch {
	case errors.Is(err, services.ErrFileNotFound), errors.Is(err, services.ErrFileMissing):
		helpers.Error(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		logger.Log.Error("Ошибка скачивания файла", zap.String("file_id", fileID), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	fileBytes, err := os.ReadFile(path)
	if err != nil {
		logger.Log.Error("Файл не читается с диска", zap.String("path", path), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, services.ErrFileUnavailable.Error())
		return
	}

	logger.Log.Info("Премиум-файл скачан", zap.String("file_id", fileID), zap.Int("user_id", user.ID))
	w.Header().Set("Content-Disposition", "attachment; filename=\""+meta.Filename+"\"")
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(fileBytes)
}
