package services

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"eduquebec/internal/config"
	"eduquebec/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloadRepo struct {
	rows []string // file_id в порядке вставки
}

func (r *fakeDownloadRepo) Insert(_ context.Context, userID int, fileID string) error {
	r.rows = append(r.rows, fileID)
	return nil
}

type fakeSubRepo struct {
	latest *models.Subscription
}

func (r *fakeSubRepo) Insert(_ context.Context, userID int, status, provider, providerRef string) error {
	r.latest = &models.Subscription{UserID: userID, Status: status, Provider: provider, ProviderRef: providerRef}
	return nil
}

func (r *fakeSubRepo) GetLatestByUserID(_ context.Context, _ int) (*models.Subscription, error) {
	return r.latest, nil
}

func newTestPremiumService(t *testing.T, assetsDir string) (*PremiumService, *fakeDownloadRepo) {
	t.Helper()
	downloads := &fakeDownloadRepo{}
	// S3 не настроен — сервис работает в локальном режиме
	storage := NewStorageService(&config.Config{})
	svc := NewPremiumService(downloads, &fakeSubRepo{}, storage, &config.Config{AssetsDir: assetsDir})
	return svc, downloads
}

func TestListFiles_SortedAndComplete(t *testing.T) {
	svc, _ := newTestPremiumService(t, t.TempDir())

	files := svc.ListFiles()
	require.Len(t, files, len(premiumCatalog))
	assert.True(t, sort.SliceIsSorted(files, func(i, j int) bool { return files[i].ID < files[j].ID }))

	ids := make(map[string]bool, len(files))
	for _, f := range files {
		ids[f.ID] = true
	}
	assert.True(t, ids["tmpl-cv-quebec"])
	assert.True(t, ids["tecfee-doc-8"])
}

func TestIssueSignedURL_UnknownFile(t *testing.T) {
	svc, downloads := newTestPremiumService(t, t.TempDir())

	_, err := svc.IssueSignedURL(context.Background(), 1, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrFileNotFound)
	// мимо каталога — в аудит ничего не пишем
	assert.Empty(t, downloads.rows)
}

func TestIssueSignedURL_LocalMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plan_tecfee_30j.pdf"), []byte("%PDF-1.4"), 0o644))
	svc, downloads := newTestPremiumService(t, dir)

	url, err := svc.IssueSignedURL(context.Background(), 7, "plan-tecfee-30j")
	require.NoError(t, err)
	assert.Equal(t, "/premium/download/plan-tecfee-30j", url)
	assert.Equal(t, []string{"plan-tecfee-30j"}, downloads.rows)
}

func TestIssueSignedURL_FileMissingOnDisk(t *testing.T) {
	svc, _ := newTestPremiumService(t, t.TempDir())

	_, err := svc.IssueSignedURL(context.Background(), 7, "plan-tecfee-30j")
	assert.ErrorIs(t, err, ErrFileUnavailable)
}

func TestIssueSignedURL_AuditAppendOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checklist_dossier.pdf"), []byte("%PDF-1.4"), 0o644))
	svc, downloads := newTestPremiumService(t, dir)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.IssueSignedURL(ctx, 7, "checklist-dossier")
		require.NoError(t, err)
	}
	// каждая выдача — отдельная строка аудита
	assert.Len(t, downloads.rows, 3)
}

func TestResolveDownload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "modele_cv_quebec.docx"), []byte("docx"), 0o644))
	svc, downloads := newTestPremiumService(t, dir)
	ctx := context.Background()

	meta, path, err := svc.ResolveDownload(ctx, 3, "tmpl-cv-quebec")
	require.NoError(t, err)
	assert.Equal(t, "modele_cv_quebec.docx", meta.Filename)
	assert.Equal(t, filepath.Join(dir, "modele_cv_quebec.docx"), path)
	assert.Equal(t, []string{"tmpl-cv-quebec"}, downloads.rows)

	_, _, err = svc.ResolveDownload(ctx, 3, "nope")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, _, err = svc.ResolveDownload(ctx, 3, "tecfee-doc-1")
	assert.ErrorIs(t, err, ErrFileMissing)
}
