package identity

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

// MinPasswordLength is the shortest password accepted
const MinPasswordLength = 6

// Factory holds the shared state behind identity sessions
type Factory struct {
	accounts    repositories.AccountRepository
	tokens      *TokenIssuer
	revocations *Revocations
	resetSender providers.PasswordResetSender
	resetURL    string
	bcryptCost  int
}

// NewFactory creates a session factory
func NewFactory(
	accounts repositories.AccountRepository,
	tokens *TokenIssuer,
	revocations *Revocations,
	resetSender providers.PasswordResetSender,
	resetURL string,
) *Factory {
	if resetSender == nil {
		resetSender = LogResetSender{}
	}
	return &Factory{
		accounts:    accounts,
		tokens:      tokens,
		revocations: revocations,
		resetSender: resetSender,
		resetURL:    resetURL,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// NewSession returns a signed-out session
func (f *Factory) NewSession() *LocalProvider {
	return &LocalProvider{factory: f, listeners: make(map[int]providers.IdentityListener)}
}

// Session returns a session restored from token; an empty token yields a signed-out session
func (f *Factory) Session(ctx context.Context, token string) (*LocalProvider, error) {
	session := f.NewSession()
	if token == "" {
		return session, nil
	}
	if _, err := session.Restore(ctx, token); err != nil {
		return nil, err
	}
	return session, nil
}

// LocalProvider is an identity session backed by the account store
type LocalProvider struct {
	factory *Factory

	mu        sync.Mutex
	current   *entities.User
	claims    *Claims
	listeners map[int]providers.IdentityListener
	nextID    int
}

// CreateAccount registers an account and signs it in
func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (*entities.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, apperrors.NewAuthError(apperrors.CodeWeakPassword, "password should be at least 6 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.factory.bcryptCost)
	if err != nil {
		return nil, apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to hash password", err)
	}

	account := &entities.Account{Email: email, PasswordHash: string(hash)}
	if err := p.factory.accounts.Create(ctx, account); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			return nil, apperrors.NewAuthError(apperrors.CodeEmailAlreadyInUse, "email is already in use", err)
		}
		return nil, apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to create account", err)
	}

	log.Info().Str("uid", account.ID).Msg("account created")
	return p.signIn(account)
}

// UpdateProfile sets the display name of the signed-in identity
func (p *LocalProvider) UpdateProfile(ctx context.Context, displayName string) (*entities.User, error) {
	current := p.CurrentIdentity()
	if current == nil {
		return nil, apperrors.NewAuthError(apperrors.CodeUserNotFound, "no signed-in user", nil)
	}

	account, err := p.loadAccount(ctx, current.UID)
	if err != nil {
		return nil, err
	}
	account.DisplayName = displayName
	if err := p.factory.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to update profile", err)
	}

	return p.signIn(account)
}

// Authenticate signs in with email and password
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	account, err := p.factory.accounts.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewAuthError(apperrors.CodeInvalidCredential, "invalid email or password", nil)
		}
		return nil, apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to load account", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.NewAuthError(apperrors.CodeInvalidCredential, "invalid email or password", nil)
	}
	if account.Disabled {
		return nil, apperrors.NewAuthError(apperrors.CodeUserDisabled, "account is disabled", nil)
	}

	return p.signIn(account)
}

// SignOut revokes the session token and clears the current identity
func (p *LocalProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	claims := p.claims
	p.current = nil
	p.claims = nil
	p.mu.Unlock()

	if claims != nil && claims.ExpiresAt != nil {
		p.factory.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
	}
	p.notify()
	return nil
}

// SendPasswordReset delivers a reset link for the account with the given email
func (p *LocalProvider) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	account, err := p.factory.accounts.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewAuthError(apperrors.CodeUserNotFound, "no account for email", err)
		}
		return apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to load account", err)
	}

	code, err := p.factory.tokens.IssueResetToken(account)
	if err != nil {
		return apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to issue reset code", err)
	}
	if err := p.factory.resetSender.SendPasswordReset(ctx, email, resetLink(p.factory.resetURL, code)); err != nil {
		return apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to send reset link", err)
	}
	return nil
}

// ConfirmPasswordReset sets a new password using a reset code. A code is
// valid once: changing the password invalidates every outstanding code.
func (p *LocalProvider) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	claims, err := p.factory.tokens.ParseResetToken(code)
	if err != nil {
		return apperrors.NewAuthError(apperrors.CodeInvalidActionCode, "reset code is invalid or expired", err)
	}
	if len(newPassword) < MinPasswordLength {
		return apperrors.NewAuthError(apperrors.CodeWeakPassword, "password should be at least 6 characters", nil)
	}

	account, err := p.factory.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewAuthError(apperrors.CodeInvalidActionCode, "reset code is invalid or expired", err)
		}
		return apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to load account", err)
	}
	if claims.PasswordFingerprint != passwordFingerprint(account.PasswordHash) {
		return apperrors.NewAuthError(apperrors.CodeInvalidActionCode, "reset code has already been used", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.factory.bcryptCost)
	if err != nil {
		return apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to hash password", err)
	}
	account.PasswordHash = string(hash)
	if err := p.factory.accounts.Update(ctx, account); err != nil {
		return apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to update password", err)
	}
	return nil
}

// Restore verifies a session token and makes its account the current identity
func (p *LocalProvider) Restore(ctx context.Context, token string) (*entities.User, error) {
	claims, err := p.factory.tokens.ParseIDToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewAuthError(apperrors.CodeIDTokenRevoked, "session has expired", err)
		}
		return nil, apperrors.NewAuthError(apperrors.CodeInvalidCredential, "invalid session token", err)
	}
	if p.factory.revocations.IsRevoked(ctx, claims.ID) {
		return nil, apperrors.NewAuthError(apperrors.CodeIDTokenRevoked, "session has been signed out", nil)
	}

	account, err := p.loadAccount(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if account.Disabled {
		return nil, apperrors.NewAuthError(apperrors.CodeUserDisabled, "account is disabled", nil)
	}

	user := account.ToUser()
	user.Token = token
	p.setCurrent(user, claims)
	return copyUser(user), nil
}

// CurrentIdentity returns the signed-in identity or nil
func (p *LocalProvider) CurrentIdentity() *entities.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyUser(p.current)
}

// Subscribe registers fn, invokes it with the current identity, and returns a de-registration func
func (p *LocalProvider) Subscribe(fn providers.IdentityListener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	current := copyUser(p.current)
	p.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

func (p *LocalProvider) signIn(account *entities.Account) (*entities.User, error) {
	token, claims, err := p.factory.tokens.IssueIDToken(account)
	if err != nil {
		return nil, apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to issue token", err)
	}
	user := account.ToUser()
	user.Token = token
	p.setCurrent(user, claims)
	return copyUser(user), nil
}

func (p *LocalProvider) setCurrent(user *entities.User, claims *Claims) {
	p.mu.Lock()
	p.current = user
	p.claims = claims
	p.mu.Unlock()
	p.notify()
}

// notify calls listeners outside the lock so they may call back into the session
func (p *LocalProvider) notify() {
	p.mu.Lock()
	current := p.current
	listeners := make([]providers.IdentityListener, 0, len(p.listeners))
	for i := 0; i < p.nextID; i++ {
		if fn, ok := p.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(copyUser(current))
	}
}

func (p *LocalProvider) loadAccount(ctx context.Context, id string) (*entities.Account, error) {
	account, err := p.factory.accounts.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewAuthError(apperrors.CodeUserNotFound, "account not found", err)
		}
		return nil, apperrors.NewAuthError(apperrors.CodeNetworkRequestFailed, "failed to load account", err)
	}
	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperrors.NewAuthError(apperrors.CodeInvalidEmail, "email address is badly formatted", err)
	}
	return nil
}

func resetLink(base, code string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "oobCode=" + url.QueryEscape(code)
}

func copyUser(u *entities.User) *entities.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

var _ providers.IdentityProvider = (*LocalProvider)(nil)
