package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	account := &entities.Account{ID: "u1", Email: "a@example.com", DisplayName: "A", PasswordHash: "h"}

	token, claims, err := issuer.IssueIDToken(account)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := issuer.ParseIDToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.Subject)
	assert.Equal(t, "a@example.com", parsed.Email)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestTokenIssuer_RejectsWrongPurpose(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	account := &entities.Account{ID: "u1", PasswordHash: "h"}

	reset, err := issuer.IssueResetToken(account)
	require.NoError(t, err)
	_, err = issuer.ParseIDToken(reset)
	assert.ErrorIs(t, err, errWrongPurpose)

	id, _, err := issuer.IssueIDToken(account)
	require.NoError(t, err)
	_, err = issuer.ParseResetToken(id)
	assert.Error(t, err)
}

func TestTokenIssuer_RejectsExpiredAndForeign(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	account := &entities.Account{ID: "u1"}
	token, _, err := issuer.IssueIDToken(account)
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.ParseIDToken(token)
	assert.Error(t, err)

	other := testAuthConfig()
	other.JWTSecret = "another-secret"
	_, err = NewTokenIssuer(other).ParseIDToken(token)
	assert.Error(t, err)
}

func TestRevocations_LocalFallback(t *testing.T) {
	ctx := context.Background()
	r := NewRevocations(nil)
	now := time.Now()
	r.now = func() time.Time { return now }

	r.Revoke(ctx, "jti-1", now.Add(time.Minute))
	assert.True(t, r.IsRevoked(ctx, "jti-1"))
	assert.False(t, r.IsRevoked(ctx, "jti-2"))

	r.now = func() time.Time { return now.Add(2 * time.Minute) }
	assert.False(t, r.IsRevoked(ctx, "jti-1"))
}

type MockCacheProvider struct {
	mock.Mock
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	return m.Called(ctx, key, value, expirationSeconds).Error(0)
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheProvider) Incr(ctx context.Context, key string, expirationSeconds int) (int64, error) {
	args := m.Called(ctx, key, expirationSeconds)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheProvider) DeletePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

func TestRevocations_SurvivesCacheReadFailure(t *testing.T) {
	ctx := context.Background()
	cache := new(MockCacheProvider)
	cache.On("Set", ctx, "auth:revoked:jti-1", []byte("1"), mock.Anything).Return(nil)
	cache.On("Exists", ctx, mock.Anything).Return(false, errors.New("connection refused"))

	r := NewRevocations(cache)
	r.Revoke(ctx, "jti-1", time.Now().Add(time.Minute))

	assert.True(t, r.IsRevoked(ctx, "jti-1"))
	assert.False(t, r.IsRevoked(ctx, "jti-2"))
	cache.AssertCalled(t, "Set", ctx, "auth:revoked:jti-1", []byte("1"), mock.Anything)
}

func TestRevocations_SharedThroughCache(t *testing.T) {
	ctx := context.Background()
	cache := new(MockCacheProvider)
	cache.On("Exists", ctx, "auth:revoked:jti-other").Return(true, nil)

	// revoked by another instance
	assert.True(t, NewRevocations(cache).IsRevoked(ctx, "jti-other"))
}
