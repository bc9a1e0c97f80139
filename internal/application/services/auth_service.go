package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

// AuthService is a thin gateway over an identity provider session. Every
// failure it returns is an auth error carrying a provider code.
type AuthService struct {
	provider providers.IdentityProvider
}

// NewAuthService creates an auth gateway for one identity session
func NewAuthService(provider providers.IdentityProvider) *AuthService {
	return &AuthService{provider: provider}
}

// SignUp creates an account and then sets its display name. The two steps are
// not transactional: if naming fails, the account still exists.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*entities.User, error) {
	user, err := s.provider.CreateAccount(ctx, email, password)
	if err != nil {
		log.Warn().Err(err).Msg("sign up failed")
		return nil, authError(err)
	}
	if displayName == "" {
		return user, nil
	}

	named, err := s.provider.UpdateProfile(ctx, displayName)
	if err != nil {
		log.Error().Err(err).Str("uid", user.UID).Msg("account created but setting display name failed")
		return nil, authError(err)
	}
	return named, nil
}

// SignIn authenticates with email and password
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.provider.Authenticate(ctx, email, password)
	if err != nil {
		log.Warn().Err(err).Msg("sign in failed")
		return nil, authError(err)
	}
	return user, nil
}

// SignOut ends the session
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		log.Error().Err(err).Msg("sign out failed")
		return authError(err)
	}
	return nil
}

// ResetPassword sends a reset link. An unknown email reports success so the
// outcome never reveals whether an account exists.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	err := s.provider.SendPasswordReset(ctx, email)
	if err == nil {
		return nil
	}
	if apperrors.AuthCode(err) == apperrors.CodeUserNotFound {
		log.Info().Msg("password reset requested for unknown account")
		return nil
	}
	log.Warn().Err(err).Msg("password reset failed")
	return authError(err)
}

// ConfirmPasswordReset sets a new password using a reset code
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if err := s.provider.ConfirmPasswordReset(ctx, code, newPassword); err != nil {
		log.Warn().Err(err).Msg("password reset confirmation failed")
		return authError(err)
	}
	return nil
}

// CurrentUser returns the signed-in user without a network call
func (s *AuthService) CurrentUser() *entities.User {
	return s.provider.CurrentIdentity()
}

// OnAuthChange registers fn, invokes it once with the current user and then
// on every sign-in and sign-out. The returned func de-registers it.
func (s *AuthService) OnAuthChange(fn providers.IdentityListener) func() {
	return s.provider.Subscribe(fn)
}

func authError(err error) error {
	if apperrors.AuthCode(err) != "" {
		return err
	}
	return apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "identity provider request failed", err)
}
