package services

import (
	"strconv"

	"eduquebec/internal/config"
	"eduquebec/internal/logger"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	dialer     *gomail.Dialer
	from       string
	configured bool
}

func NewEmailService(cfg *config.Config) *EmailService {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}
	return &EmailService{
		dialer:     gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPassword),
		from:       cfg.SMTPFrom,
		configured: cfg.SMTPHost != "",
	}
}

// Configured — false, если SMTP не настроен и письма уходят в лог.
func (s *EmailService) Configured() bool {
	return s.configured
}

// SendHTML отправляет письмо с HTML-версией и текстовой альтернативой.
// Без настроенного SMTP письмо печатается в лог — это dev-режим, не ошибка:
// ссылку активации можно забрать из консоли.
func (s *EmailService) SendHTML(to []string, subject, html, text string) error {
	if !s.configured {
		logger.Log.Info("SMTP не настроен — письмо выводится в лог",
			zap.Strings("to", to),
			zap.String("subject", subject),
			zap.String("text", text),
		)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	if text != "" {
		m.SetBody("text/plain", text)
	} else {
		m.SetBody("text/plain", "Votre client email ne supporte pas le HTML.")
	}
	m.AddAlternative("text/html", html)

	return s.dialer.DialAndSend(m)
}

type EmailJob struct {
	To      []string
	Subject string
	Body    string
	Text    string
}

var EmailQueue = make(chan EmailJob, 100) // глобальная очередь на 100 писем

// Enqueue кладёт письмо в очередь без блокировки; при переполнении
// письмо теряется с записью в лог.
func Enqueue(job EmailJob) {
	select {
	case EmailQueue <- job:
	default:
		logger.Log.Error("Очередь писем переполнена, письмо отброшено",
			zap.Strings("to", job.To), zap.String("subject", job.Subject))
	}
}

func StartEmailWorker(emailService *EmailService) {
	go func() {
		for job := range EmailQueue {
			if err := emailService.SendHTML(job.To, job.Subject, job.Body, job.Text); err != nil {
				logger.Log.Error("Не удалось отправить письмо", zap.Error(err))
			}
		}
	}()
}
