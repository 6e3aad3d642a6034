package identity

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/ims/backend/internal/application/validation"
	"github.com/ims/backend/internal/domain/notification"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ResetMailRenderer renders the password reset email
type ResetMailRenderer interface {
	RenderPasswordReset(fullName, resetURL string, validFor time.Duration) (subject, html string, err error)
}

// PasswordResetConfig configures the emailed reset flow
type PasswordResetConfig struct {
	// BaseURL is the web UI origin; the link points at BaseURL/reset-password
	BaseURL   string
	// RevokeTTL bounds the user-wide revocation written after a reset
	RevokeTTL time.Duration
}

type passwordReset struct {
	mailer   notification.Mailer
	renderer ResetMailRenderer
	cfg      PasswordResetConfig
}

func (r passwordReset) canMail() bool {
	return r.mailer != nil && r.renderer != nil
}

// SetPasswordReset configures the reset flow. With a nil mailer requests are
// accepted and logged but no email is sent.
func (s *AuthService) SetPasswordReset(mailer notification.Mailer, renderer ResetMailRenderer, cfg PasswordResetConfig) {
	s.reset = passwordReset{mailer: mailer, renderer: renderer, cfg: cfg}
}

// ForgotPassword emails a reset link when the address belongs to a profile.
// The outcome is the same for unknown addresses and mail failures so the
// endpoint cannot be used to discover accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	profile, err := s.profileRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset for unknown email", zap.String("email", req.Email))
			return nil
		}
		return err
	}
	if !s.reset.canMail() {
		s.logger.Warn("Password reset requested but mail is not configured",
			zap.String("user_id", profile.ID.String()))
		return nil
	}

	token, _, err := s.jwtService.GeneratePasswordResetToken(profile.ID, profile.PasswordFingerprint())
	if err != nil {
		s.logger.Error("Failed to generate reset token", zap.Error(err))
		return err
	}
	subject, html, err := s.reset.renderer.RenderPasswordReset(
		profile.FullName, resetLink(s.reset.cfg.BaseURL, token), s.jwtService.PasswordResetLifetime())
	if err != nil {
		s.logger.Error("Failed to render reset email", zap.Error(err))
		return nil
	}
	if err := s.reset.mailer.Send(ctx, notification.EmailMessage{
		To:      []string{profile.Email},
		Subject: subject,
		HTML:    html,
	}); err != nil {
		s.logger.Error("Failed to send reset email",
			zap.String("user_id", profile.ID.String()), zap.Error(err))
		return nil
	}

	s.logger.Info("Password reset email sent", zap.String("user_id", profile.ID.String()))
	return nil
}

// ResetPassword sets a new password from an emailed token. A token stops
// working once the password it was issued for has changed, and every
// session issued before the reset is revoked.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	claims, err := s.jwtService.ValidatePasswordResetToken(req.Token)
	if err != nil {
		s.logger.Warn("Reset token validation failed", zap.Error(err))
		return mapTokenError(err)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return ErrTokenInvalid
	}
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrTokenInvalid
		}
		return err
	}
	if claims.Fingerprint != profile.PasswordFingerprint() {
		return ErrTokenInvalid
	}

	if err := profile.SetPassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return err
	}

	if s.revocations != nil {
		if err := s.revocations.RevokeUser(ctx, profile.ID.String(), s.reset.cfg.RevokeTTL); err != nil {
			s.logger.Error("Failed to revoke tokens after password reset",
				zap.String("user_id", profile.ID.String()), zap.Error(err))
		}
	}
	s.logger.Info("User password reset", zap.String("user_id", profile.ID.String()))
	return nil
}

func resetLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}
