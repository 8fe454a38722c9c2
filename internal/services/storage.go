package services

import (
	"context"
	"fmt"
	"time"

	appcfg "eduquebec/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// StorageService выдаёт подписанные ссылки на объекты S3/R2.
// Если хранилище не настроено полностью, файлы отдаются с локального диска.
type StorageService struct {
	endpoint   string
	accessKey  string
	secretKey  string
	region     string
	bucket     string
	prefix     string
	urlTTL     time.Duration
	configured bool
}

func NewStorageService(cfg *appcfg.Config) *StorageService {
	return &StorageService{
		endpoint:   cfg.S3Endpoint,
		accessKey:  cfg.S3AccessKeyID,
		secretKey:  cfg.S3SecretKey,
		region:     cfg.S3Region,
		bucket:     cfg.S3Bucket,
		prefix:     cfg.S3Prefix,
		urlTTL:     appcfg.ParseTTL(cfg.S3SignedURLTTL, 5*time.Minute),
		configured: cfg.S3Configured(),
	}
}

func (s *StorageService) IsConfigured() bool {
	return s.configured
}

// ObjectKey — ключ объекта в бакете: префикс + имя файла.
func (s *StorageService) ObjectKey(filename string) string {
	return s.prefix + filename
}

func (s *StorageService) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.accessKey,
			s.secretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.endpoint)
	})

	return s3.NewPresignClient(client), nil
}

// PresignGetURL выдаёт временную GET-ссылку; content-disposition заставляет
// браузер сохранить файл под отображаемым именем.
func (s *StorageService) PresignGetURL(ctx context.Context, key, downloadName string) (string, error) {
	presignClient, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}

	input := &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}
	if downloadName != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", downloadName))
	}

	req, err := presignClient.PresignGetObject(ctx, input, s3.WithPresignExpires(s.urlTTL))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
