package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/pkg/config"
)

const (
	purposeID    = "id"
	purposeReset = "password_reset"
)

// Claims carried by id and password reset tokens
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Purpose string `json:"purpose"`
	// PasswordFingerprint ties a reset token to the password it replaces so it works once.
	PasswordFingerprint string `json:"pwf,omitempty"`
	jwt.RegisteredClaims
}

var errWrongPurpose = errors.New("token has the wrong purpose")

// TokenIssuer signs and verifies HS256 tokens
type TokenIssuer struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	resetTTL time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates a token issuer from auth configuration
func NewTokenIssuer(cfg *config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		ttl:      cfg.TokenTTL,
		resetTTL: cfg.ResetTokenTTL,
		now:      time.Now,
	}
}

// IssueIDToken signs a session token for the account
func (i *TokenIssuer) IssueIDToken(account *entities.Account) (string, *Claims, error) {
	claims := i.claims(account, purposeID, i.ttl)
	claims.Email = account.Email
	claims.Name = account.DisplayName

	token, err := i.sign(claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// IssueResetToken signs a single-use password reset code for the account
func (i *TokenIssuer) IssueResetToken(account *entities.Account) (string, error) {
	claims := i.claims(account, purposeReset, i.resetTTL)
	claims.PasswordFingerprint = passwordFingerprint(account.PasswordHash)
	return i.sign(claims)
}

// ParseIDToken verifies a session token
func (i *TokenIssuer) ParseIDToken(token string) (*Claims, error) {
	return i.parse(token, purposeID)
}

// ParseResetToken verifies a password reset code
func (i *TokenIssuer) ParseResetToken(token string) (*Claims, error) {
	return i.parse(token, purposeReset)
}

func (i *TokenIssuer) claims(account *entities.Account, purpose string, ttl time.Duration) *Claims {
	now := i.now()
	return &Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   account.ID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func (i *TokenIssuer) sign(claims *Claims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (i *TokenIssuer) parse(token, purpose string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, errWrongPurpose
	}
	return claims, nil
}

func passwordFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}
