package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"pubquiz/config"
	"pubquiz/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// AuthService issues and verifies single-use magic-link tokens and turns a
// verified user into a signed cookie principal. It never reveals whether an
// email address has an account.
type AuthService struct {
	db    *gorm.DB
	email *EmailService
	log   zerolog.Logger

	jwtSecret string
	expiry    time.Duration

	now func() time.Time
}

const sessionTokenLifetime = 30 * 24 * time.Hour

func NewAuthService(db *gorm.DB, email *EmailService, cfg *config.Config, logger zerolog.Logger) *AuthService {
	return &AuthService{
		db:        db,
		email:     email,
		log:       logger,
		jwtSecret: cfg.JWTSecret,
		expiry:    time.Duration(cfg.MagicLinkExpiryMin) * time.Minute,
		now:       time.Now,
	}
}

// RequestMagicLink creates a login token for an existing account and mails
// the link. Unknown addresses are ignored; the handler responds identically
// either way. Email delivery runs in the background so a slow or failing
// SMTP server never blocks the response.
func (s *AuthService) RequestMagicLink(email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.Where("email = ?", normalized).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token := generateSecureToken()
	magicToken := models.MagicToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.expiry),
	}
	if err := s.db.Create(&magicToken).Error; err != nil {
		return err
	}

	go s.email.SendMagicLink(normalized, token, s.expiry)
	return nil
}

// VerifyMagicLink consumes a token. The conditional update is what makes a
// token verify at most once even under concurrent requests; expired tokens
// fail closed.
func (s *AuthService) VerifyMagicLink(token string) (*models.User, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.MagicToken{}).
			Where("token = ? AND used = ? AND expires_at > ?", token, false, s.now()).
			Update("used", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidToken
		}

		var magicToken models.MagicToken
		if err := tx.Where("token = ?", token).First(&magicToken).Error; err != nil {
			return err
		}
		return tx.First(&user, magicToken.UserID).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", user.ID).Msg("magic link verified")
	return &user, nil
}

// SessionClaims is the principal carried in the auth cookie.
type SessionClaims struct {
	UserID   uint            `json:"uid"`
	Role     models.Role     `json:"role"`
	Language models.Language `json:"lang"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a cookie JWT for a verified user.
func (s *AuthService) IssueSessionToken(user *models.User) (string, error) {
	claims := SessionClaims{
		UserID:   user.ID,
		Role:     user.Role,
		Language: user.Language,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(sessionTokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// SweepTokens deletes expired and used magic tokens.
func (s *AuthService) SweepTokens() error {
	result := s.db.Where("expires_at < ? OR used = ?", s.now(), true).
		Delete(&models.MagicToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		s.log.Debug().Int64("removed", result.RowsAffected).Msg("magic tokens swept")
	}
	return nil
}

// StartSweeper runs SweepTokens on a timer until the context is canceled.
func (s *AuthService) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.SweepTokens(); err != nil {
					s.log.Error().Err(err).Msg("token sweep failed")
				}
			}
		}
	}()
}

func generateSecureToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return base64.RawURLEncoding.EncodeToString(bytes)
}
