package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrStripeNotConfigured  = errors.New("Stripe non configuré (STRIPE_SECRET_KEY).")
	ErrWebhookNotConfigured = errors.New("Stripe webhook non configuré.")
	ErrInvalidSignature     = errors.New("Signature invalide.")
	ErrInvalidProduct       = errors.New("Produit invalide.")
)

// Допустимый разбег часов между Stripe и нами при проверке подписи.
const webhookTolerance = 5 * time.Minute

type StripeService struct {
	SecretKey       string
	WebhookSecret   string
	FrontendBaseURL string
	HTTPClient      *http.Client

	now func() time.Time // подменяется в тестах
}

func NewStripeService(secretKey, webhookSecret, frontendBaseURL string) *StripeService {
	return &StripeService{
		SecretKey:       secretKey,
		WebhookSecret:   webhookSecret,
		FrontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
		HTTPClient:      &http.Client{Timeout: 15 * time.Second},
		now:             time.Now,
	}
}

type checkoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession создаёт hosted-сессию Checkout с фиксированной ценой.
// Email пользователя кладётся в metadata — по нему вебхук найдёт аккаунт.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, email string) (string, error) {
	if s.SecretKey == "" {
		return "", ErrStripeNotConfigured
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", "cad")
	form.Set("line_items[0][price_data][product_data][name]", "EduQuébec Premium")
	form.Set("line_items[0][price_data][unit_amount]", "1999")
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", s.FrontendBaseURL+"/premium.html?success=1")
	form.Set("cancel_url", s.FrontendBaseURL+"/premium.html?canceled=1")
	form.Set("metadata[email]", email)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.stripe.com/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	req.Header.Set("Idempotency-Key", fmt.Sprintf("checkout-%d", time.Now().UnixNano()))

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("stripe: checkout session failed, status %d: %s", resp.StatusCode, body)
	}

	var res checkoutSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", err
	}
	return res.URL, nil
}

// WebhookEvent — минимальная форма события Stripe, которая нам нужна.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// ConstructEvent проверяет заголовок Stripe-Signature по схеме t=...,v1=...
// (HMAC-SHA256 от "<t>.<raw body>") и разбирает событие. Подпись считается
// строго по сырым байтам тела — пересериализация её сломала бы.
func (s *StripeService) ConstructEvent(payload []byte, sigHeader string) (*WebhookEvent, error) {
	if s.WebhookSecret == "" {
		return nil, ErrWebhookNotConfigured
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	if delta := s.now().UTC().Sub(time.Unix(timestamp, 0)); delta > webhookTolerance || delta < -webhookTolerance {
		return nil, ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(s.WebhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	valid := false
	for _, sig := range signatures {
		if hmac.Equal(sig, expected) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ErrInvalidSignature
	}
	return &event, nil
}

func parseSignatureHeader(header string) (int64, [][]byte, error) {
	var (
		timestamp  int64 = -1
		signatures [][]byte
	)
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			t, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, err
			}
			timestamp = t
		case "v1":
			sig, err := hex.DecodeString(kv[1])
			if err != nil {
				continue // битую подпись пропускаем, достаточно одной валидной
			}
			signatures = append(signatures, sig)
		}
	}
	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, errors.New("malformed signature header")
	}
	return timestamp, signatures, nil
}
