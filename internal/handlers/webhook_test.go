package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eduquebec/internal/models"
	"eduquebec/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const whSecret = "whsec_test"

type fakeWebhookUsers struct {
	users map[string]*models.User
}

func (f *fakeWebhookUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return f.users[email], nil
}

type fakeWebhookSubs struct {
	inserted []models.Subscription
}

func (f *fakeWebhookSubs) Insert(_ context.Context, userID int, status, provider, providerRef string) error {
	f.inserted = append(f.inserted, models.Subscription{
		UserID: userID, Status: status, Provider: provider, ProviderRef: providerRef,
	})
	return nil
}

func stripeSignature(secret string, payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func newWebhookTestHandler(users map[string]*models.User) (*WebhookHandler, *fakeWebhookSubs) {
	subs := &fakeWebhookSubs{}
	stripe := services.NewStripeService("sk_test", whSecret, "http://front.local")
	return NewWebhookHandler(stripe, &fakeWebhookUsers{users: users}, subs), subs
}

func postWebhook(h *WebhookHandler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	h.HandleStripe(rec, req)
	return rec
}

func TestHandleStripe_ActivatesSubscription(t *testing.T) {
	h, subs := newWebhookTestHandler(map[string]*models.User{
		"a@b.fr": {ID: 42, Email: "a@b.fr", EmailVerified: true, IsActive: true},
	})

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{"email":"A@B.FR"}}}}`)
	rec := postWebhook(h, payload, stripeSignature(whSecret, payload))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, subs.inserted, 1)
	assert.Equal(t, 42, subs.inserted[0].UserID)
	assert.Equal(t, models.SubscriptionActive, subs.inserted[0].Status)
	assert.Equal(t, "stripe", subs.inserted[0].Provider)
	assert.Equal(t, "cs_1", subs.inserted[0].ProviderRef)
}

func TestHandleStripe_BadSignature(t *testing.T) {
	h, subs := newWebhookTestHandler(nil)

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	rec := postWebhook(h, payload, stripeSignature("whsec_wrong", payload))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, subs.inserted)
}

func TestHandleStripe_MissingSignature(t *testing.T) {
	h, subs := newWebhookTestHandler(nil)

	rec := postWebhook(h, []byte(`{}`), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, subs.inserted)
}

func TestHandleStripe_IgnoresOtherEvents(t *testing.T) {
	h, subs := newWebhookTestHandler(nil)

	payload := []byte(`{"id":"evt_2","type":"payment_intent.created"}`)
	rec := postWebhook(h, payload, stripeSignature(whSecret, payload))

	// подтверждаем получение, но ничего не делаем
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, subs.inserted)
}

func TestHandleStripe_UnknownEmailIsAcknowledged(t *testing.T) {
	h, subs := newWebhookTestHandler(map[string]*models.User{})

	payload := []byte(`{"id":"evt_3","type":"checkout.session.completed","data":{"object":{"id":"cs_2","metadata":{"email":"ghost@b.fr"}}}}`)
	rec := postWebhook(h, payload, stripeSignature(whSecret, payload))

	// 200, иначе Stripe будет ретраить событие, которое нам нечем обработать
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, subs.inserted)
}

func TestHandleStripe_NotConfigured(t *testing.T) {
	stripe := services.NewStripeService("sk_test", "", "http://front.local")
	h := NewWebhookHandler(stripe, &fakeWebhookUsers{}, &fakeWebhookSubs{})

	rec := postWebhook(h, []byte(`{}`), "t=1,v1=00")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
