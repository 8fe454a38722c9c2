package services

import (
	"context"
	"testing"
	"time"

	"eduquebec/internal/config"
	"eduquebec/internal/models"
	"eduquebec/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo — in-memory реализация UserRepo для тестов сервиса.
type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByVerifyToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.VerifyToken != nil && *u.VerifyToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpsertUnverified(_ context.Context, email, passwordHash, token string, expiresAt time.Time) error {
	u, ok := r.byEmail[email]
	if !ok {
		u = &models.User{ID: r.nextID, Email: email, CreatedAt: time.Now()}
		r.nextID++
		r.byEmail[email] = u
	}
	u.PasswordHash = passwordHash
	u.IsActive = false
	u.EmailVerified = false
	u.VerifyToken = &token
	u.VerifyTokenExpiresAt = &expiresAt
	return nil
}

func (r *fakeUserRepo) Activate(_ context.Context, userID int) error {
	for _, u := range r.byEmail {
		if u.ID == userID {
			u.IsActive = true
			u.EmailVerified = true
			u.VerifyToken = nil
			u.VerifyTokenExpiresAt = nil
		}
	}
	return nil
}

func (r *fakeUserRepo) RotateVerifyToken(_ context.Context, userID int, token string, expiresAt time.Time) error {
	for _, u := range r.byEmail {
		if u.ID == userID {
			u.VerifyToken = &token
			u.VerifyTokenExpiresAt = &expiresAt
		}
	}
	return nil
}

func newTestAuthService(repo UserRepo) *AuthService {
	return NewAuthService(repo, &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  "1h",
		VerifyTokenTTL:  "30m",
		FrontendBaseURL: "http://front.local/",
	})
}

func TestRegister_PasswordTooShort(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	err := svc.Register(context.Background(), "a@b.fr", "1234567")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_NewUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	err := svc.Register(context.Background(), "  New@Example.COM ", "password123")
	require.NoError(t, err)

	// email нормализован, аккаунт создан неактивным с токеном
	u := repo.byEmail["new@example.com"]
	require.NotNil(t, u)
	assert.False(t, u.EmailVerified)
	assert.False(t, u.IsActive)
	require.NotNil(t, u.VerifyToken)
	assert.True(t, utils.CheckPasswordHash("password123", u.PasswordHash))
}

func TestRegister_VerifiedConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	require.NoError(t, svc.Register(context.Background(), "a@b.fr", "password123"))
	repo.byEmail["a@b.fr"].EmailVerified = true

	err := svc.Register(context.Background(), "a@b.fr", "password456")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegister_UnverifiedRotatesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "a@b.fr", "password123"))
	first := *repo.byEmail["a@b.fr"].VerifyToken

	require.NoError(t, svc.Register(ctx, "a@b.fr", "newpassword456"))
	second := *repo.byEmail["a@b.fr"].VerifyToken

	// повторная регистрация перезаписывает токен и пароль, старый токен мёртв
	assert.NotEqual(t, first, second)
	assert.True(t, utils.CheckPasswordHash("newpassword456", repo.byEmail["a@b.fr"].PasswordHash))

	u, err := repo.GetByVerifyToken(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestVerify_UnknownToken(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	assert.ErrorIs(t, svc.Verify(context.Background(), "nope"), ErrTokenInvalid)
	assert.ErrorIs(t, svc.Verify(context.Background(), "   "), ErrTokenInvalid)
}

func TestVerify_ExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "a@b.fr", "password123"))
	past := time.Now().UTC().Add(-time.Minute)
	repo.byEmail["a@b.fr"].VerifyTokenExpiresAt = &past

	token := *repo.byEmail["a@b.fr"].VerifyToken
	assert.ErrorIs(t, svc.Verify(ctx, token), ErrTokenExpired)
}

func TestVerify_ActivatesAndIsSingleUse(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "a@b.fr", "password123"))
	token := *repo.byEmail["a@b.fr"].VerifyToken

	require.NoError(t, svc.Verify(ctx, token))
	u := repo.byEmail["a@b.fr"]
	assert.True(t, u.EmailVerified)
	assert.True(t, u.IsActive)

	// токен одноразовый
	assert.ErrorIs(t, svc.Verify(ctx, token), ErrTokenInvalid)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ghost@b.fr", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.Register(ctx, "a@b.fr", "password123"))
	_, err = svc.Login(ctx, "a@b.fr", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NotActivated(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "a@b.fr", "password123"))

	_, err := svc.Login(ctx, "a@b.fr", "password123")
	assert.ErrorIs(t, err, ErrAccountNotActivated)
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "a@b.fr", "password123"))
	require.NoError(t, svc.Verify(ctx, *repo.byEmail["a@b.fr"].VerifyToken))

	token, err := svc.Login(ctx, "A@B.FR", "password123")
	require.NoError(t, err)

	email, err := utils.ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.fr", email)
}

func TestResend_DoesNotRevealAccounts(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	msg, err := svc.Resend(ctx, "ghost@b.fr")
	require.NoError(t, err)
	assert.Equal(t, "Si un compte existe, un email a été envoyé.", msg)
}

func TestResend_AlreadyActivated(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "a@b.fr", "password123"))
	require.NoError(t, svc.Verify(ctx, *repo.byEmail["a@b.fr"].VerifyToken))

	msg, err := svc.Resend(ctx, "a@b.fr")
	require.NoError(t, err)
	assert.Equal(t, "Compte déjà activé.", msg)
}

func TestResend_RotatesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "a@b.fr", "password123"))
	first := *repo.byEmail["a@b.fr"].VerifyToken

	msg, err := svc.Resend(ctx, "a@b.fr")
	require.NoError(t, err)
	assert.Equal(t, "Email envoyé.", msg)

	second := *repo.byEmail["a@b.fr"].VerifyToken
	assert.NotEqual(t, first, second)

	// старый токен больше не активирует аккаунт, новый — активирует
	assert.ErrorIs(t, svc.Verify(ctx, first), ErrTokenInvalid)
	require.NoError(t, svc.Verify(ctx, second))
}
