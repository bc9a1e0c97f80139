package identity

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogResetSender writes password reset links to the log instead of mailing them
type LogResetSender struct{}

// SendPasswordReset logs the reset link
func (LogResetSender) SendPasswordReset(ctx context.Context, email, link string) error {
	log.Info().Str("email", email).Str("link", link).Msg("password reset requested")
	return nil
}
