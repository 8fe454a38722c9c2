package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"eduquebec/internal/config"
	"eduquebec/internal/logger"
	"eduquebec/internal/models"

	"go.uber.org/zap"
)

var (
	ErrFileNotFound    = errors.New("Fichier introuvable.")
	ErrFileMissing     = errors.New("Fichier manquant sur le serveur.")
	ErrFileUnavailable = errors.New("Fichier non disponible côté serveur.")
)

// Каталог премиум-файлов. Идентификаторы — закрытый список: на диск и в
// бакет уходят только имена из этой таблицы, никогда пользовательский ввод.
var premiumCatalog = map[string]models.PremiumFile{
	"tmpl-cv-quebec":    {ID: "tmpl-cv-quebec", Filename: "modele_cv_quebec.docx", Title: "Modèle de CV (Québec)", Type: "docx"},
	"plan-tecfee-30j":   {ID: "plan-tecfee-30j", Filename: "plan_tecfee_30j.pdf", Title: "Plan TECFÉE — 30 jours", Type: "pdf"},
	"lettre-css":        {ID: "lettre-css", Filename: "lettre_css.docx", Title: "Lettre — candidature CSS", Type: "docx"},
	"checklist-dossier": {ID: "checklist-dossier", Filename: "checklist_dossier.pdf", Title: "Checklist dossier", Type: "pdf"},
	"tecfee-compo":      {ID: "tecfee-compo", Filename: "COMPO.pdf", Title: "COMPO — Grille / feuille de test", Type: "pdf"},
	"tecfee-doc-1":      {ID: "tecfee-doc-1", Filename: "DOC-1.pdf", Title: "DOC-1 — Exercices préparatoires TECFÉE (Partie 1)", Type: "pdf"},
	"tecfee-doc-2":      {ID: "tecfee-doc-2", Filename: "DOC-2.pdf", Title: "DOC-2 — Exercices préparatoires TECFÉE (Partie 2)", Type: "pdf"},
	"tecfee-doc-3":      {ID: "tecfee-doc-3", Filename: "DOC-3.pdf", Title: "DOC-3 — Exercices préparatoires TECFÉE (Partie 3)", Type: "pdf"},
	"tecfee-doc-4":      {ID: "tecfee-doc-4", Filename: "DOC-4.pdf", Title: "DOC-4 — Exercices préparatoires TECFÉE (Partie 4)", Type: "pdf"},
	"tecfee-doc-5":      {ID: "tecfee-doc-5", Filename: "DOC-5.pdf", Title: "DOC-5 — Exercices préparatoires TECFÉE (Partie 5)", Type: "pdf"},
	"tecfee-doc-6":      {ID: "tecfee-doc-6", Filename: "DOC-6.pdf", Title: "DOC-6 — Exercices préparatoires TECFÉE (Partie 6)", Type: "pdf"},
	"tecfee-doc-7":      {ID: "tecfee-doc-7", Filename: "DOC-7.pdf", Title: "DOC-7 — Exercices préparatoires TECFÉE (Partie 7)", Type: "pdf"},
	"tecfee-doc-8":      {ID: "tecfee-doc-8", Filename: "DOC-8.pdf", Title: "DOC-8 — Exercices préparatoires TECFÉE (Partie 8)", Type: "pdf"},
}

type DownloadRepo interface {
	Insert(ctx context.Context, userID int, fileID string) error
}

type SubscriptionRepo interface {
	Insert(ctx context.Context, userID int, status, provider, providerRef string) error
	GetLatestByUserID(ctx context.Context, userID int) (*models.Subscription, error)
}

type PremiumService struct {
	downloads DownloadRepo
	subs      SubscriptionRepo
	storage   *StorageService
	assetsDir string
}

func NewPremiumService(downloads DownloadRepo, subs SubscriptionRepo, storage *StorageService, cfg *config.Config) *PremiumService {
	return &PremiumService{
		downloads: downloads,
		subs:      subs,
		storage:   storage,
		assetsDir: cfg.AssetsDir,
	}
}

// ListFiles возвращает каталог в стабильном порядке (для выдачи наружу).
func (s *PremiumService) ListFiles() []models.PremiumFile {
	files := make([]models.PremiumFile, 0, len(premiumCatalog))
	for _, f := range premiumCatalog {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files
}

// Status — текущая подписка пользователя; nil, если подписки никогда не было.
func (s *PremiumService) Status(ctx context.Context, userID int) (*models.Subscription, error) {
	return s.subs.GetLatestByUserID(ctx, userID)
}

// IssueSignedURL выдаёт ссылку на файл каталога: подписанный GET из
// объектного хранилища либо, без него, ссылку на прямое скачивание.
// Каждая выдача пишется в аудит одной строкой.
func (s *PremiumService) IssueSignedURL(ctx context.Context, userID int, fileID string) (string, error) {
	meta, ok := premiumCatalog[fileID]
	if !ok {
		logger.Log.Warn("Запрошен неизвестный file_id (service)", zap.String("file_id", fileID))
		return "", ErrFileNotFound
	}

	if err := s.downloads.Insert(ctx, userID, fileID); err != nil {
		return "", err
	}

	if s.storage.IsConfigured() {
		url, err := s.storage.PresignGetURL(ctx, s.storage.ObjectKey(meta.Filename), meta.Filename)
		if err != nil {
			logger.Log.Error("Ошибка presign-ссылки (service)", zap.String("file_id", fileID), zap.Error(err))
			return "", err
		}
		return url, nil
	}

	// Локальный режим: файл должен существовать, иначе это ошибка сервера
	path := filepath.Join(s.assetsDir, meta.Filename)
	if _, err := os.Stat(path); err != nil {
		logger.Log.Error("Премиум-файл отсутствует на диске (service)",
			zap.String("file_id", fileID), zap.String("path", path), zap.Error(err))
		return "", ErrFileUnavailable
	}

	// Фронтенд пойдёт за байтами на /premium/download
	return "/premium/download/" + fileID, nil
}

// ResolveDownload возвращает метаданные и путь на диске для прямой отдачи
// файла, записывая выдачу в аудит.
func (s *PremiumService) ResolveDownload(ctx context.Context, userID int, fileID string) (models.PremiumFile, string, error) {
	meta, ok := premiumCatalog[fileID]
	if !ok {
		return models.PremiumFile{}, "", ErrFileNotFound
	}

	path := filepath.Join(s.assetsDir, meta.Filename)
	if _, err := os.Stat(path); err != nil {
		logger.Log.Error("Премиум-файл отсутствует на диске (service)",
			zap.String("file_id", fileID), zap.String("path", path), zap.Error(err))
		return models.PremiumFile{}, "", ErrFileMissing
	}

	if err := s.downloads.Insert(ctx, userID, fileID); err != nil {
		return models.PremiumFile{}, "", err
	}

	return meta, path, nil
}
