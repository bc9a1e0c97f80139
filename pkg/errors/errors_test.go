package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewAuthError(CodeWeakPassword, "password too short", nil)
	assert.Equal(t, "AUTH(auth/weak-password): password too short", err.Error())

	wrapped := NewStoreError("failed to insert review", fmt.Errorf("connection reset"))
	assert.Equal(t, "STORE: failed to insert review: connection reset", wrapped.Error())
}

func TestIsType_FollowsChain(t *testing.T) {
	inner := NewNotFoundError("business b1 not found")
	outer := NewStoreError("failed to get business", inner)
	wrapped := fmt.Errorf("handler: %w", outer)

	assert.True(t, IsType(wrapped, ErrorTypeStore))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsType(wrapped, ErrorTypeAuth))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}

func TestAuthCode(t *testing.T) {
	err := fmt.Errorf("sign in: %w", NewAuthError(CodeInvalidCredential, "bad password", nil))
	assert.Equal(t, CodeInvalidCredential, AuthCode(err))
	assert.Equal(t, "", AuthCode(NewStoreError("x", nil)))
	assert.Equal(t, "", AuthCode(nil))
}
