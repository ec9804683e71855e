package services

import (
	"fmt"
	"time"

	"pubquiz/config"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

// EmailService delivers magic-link mails over SMTP. Delivery failures are
// logged together with the link itself so local development works without a
// mail server; they are never surfaced to the caller.
type EmailService struct {
	host    string
	port    int
	from    string
	baseURL string
	log     zerolog.Logger
}

func NewEmailService(cfg *config.Config, logger zerolog.Logger) *EmailService {
	return &EmailService{
		host:    cfg.SMTPHost,
		port:    cfg.SMTPPort,
		from:    cfg.SMTPFrom,
		baseURL: cfg.BaseURL,
		log:     logger,
	}
}

func (s *EmailService) SendMagicLink(email, token string, expiry time.Duration) {
	magicLinkURL := fmt.Sprintf("%s/auth/verify?token=%s", s.baseURL, token)

	body := fmt.Sprintf(`Hello!

Click the link below to log in:

%s

This link will expire in %d minutes.

If you didn't request this link, you can safely ignore this email.
`, magicLinkURL, int(expiry.Minutes()))

	if err := s.send(email, "Your login link", body); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to send magic link email")
		s.log.Info().Str("email", email).Str("url", magicLinkURL).Msg("development magic link")
		return
	}
	s.log.Info().Str("email", email).Msg("magic link email sent")
}

func (s *EmailService) send(to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}
