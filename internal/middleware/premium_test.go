package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduquebec/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeSubReader struct {
	sub *models.Subscription
	err error
}

func (r *fakeSubReader) GetLatestByUserID(_ context.Context, _ int) (*models.Subscription, error) {
	return r.sub, r.err
}

func premiumRequest(user *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/premium/signed-url/tmpl-cv-quebec", nil)
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), ContextUser, user))
	}
	return req
}

func TestRequirePremium_ActiveSubscription(t *testing.T) {
	subs := &fakeSubReader{sub: &models.Subscription{Status: models.SubscriptionActive}}
	called := false
	handler := RequirePremium(subs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, premiumRequest(&models.User{ID: 1}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequirePremium_NoUserInContext(t *testing.T) {
	handler := RequirePremium(&fakeSubReader{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("без пользователя в контексте хендлер не вызывается")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, premiumRequest(nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePremium_NoSubscription(t *testing.T) {
	// строк подписки нет вообще
	handler := RequirePremium(&fakeSubReader{sub: nil})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("без подписки хендлер не вызывается")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, premiumRequest(&models.User{ID: 1}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePremium_InactiveSubscription(t *testing.T) {
	subs := &fakeSubReader{sub: &models.Subscription{Status: "inactive"}}
	handler := RequirePremium(subs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("с неактивной подпиской хендлер не вызывается")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, premiumRequest(&models.User{ID: 1}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePremium_RepoError(t *testing.T) {
	subs := &fakeSubReader{err: errors.New("connection refused")}
	handler := RequirePremium(subs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("при ошибке БД хендлер не вызывается")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, premiumRequest(&models.User{ID: 1}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
