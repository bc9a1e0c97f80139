package providers

import (
	"context"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

// IdentityListener receives the current identity, or nil when signed out
type IdentityListener func(user *entities.User)

// IdentityProvider is a client session against the identity service.
// Mutating calls change the session's current identity and notify subscribers.
type IdentityProvider interface {
	// CreateAccount registers an account and signs it in
	CreateAccount(ctx context.Context, email, password string) (*entities.User, error)

	// UpdateProfile sets the display name of the signed-in identity
	UpdateProfile(ctx context.Context, displayName string) (*entities.User, error)

	// Authenticate signs in with email and password
	Authenticate(ctx context.Context, email, password string) (*entities.User, error)

	// SignOut ends the session
	SignOut(ctx context.Context) error

	// SendPasswordReset delivers a reset code for the account with the given email
	SendPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset sets a new password using a reset code
	ConfirmPasswordReset(ctx context.Context, code, newPassword string) error

	// CurrentIdentity returns the signed-in identity without a network call
	CurrentIdentity() *entities.User

	// Subscribe registers fn, invokes it with the current identity, and returns a de-registration func
	Subscribe(fn IdentityListener) func()
}

// PasswordResetSender delivers password reset links
type PasswordResetSender interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}
