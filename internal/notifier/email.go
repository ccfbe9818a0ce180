// Package notifier delivers best-effort email notifications. Delivery runs
// off the request path with a bounded timeout; a failed send is logged and
// never surfaced to the caller.
package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	Host     string `env:"SMTP_HOST" env-default:"localhost"`
	Port     string `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME" env-default:""`
	Password string `env:"SMTP_PASSWORD" env-default:""`
	From     string `env:"SMTP_FROM" env-default:"noreply@filesharing.local"`
}

const sendTimeout = 5 * time.Second

// Notifier is what the file and auth services see. EmailNotifier is the SMTP
// implementation; tests substitute their own.
type Notifier interface {
	NotifyShared(toEmail, ownerName, fileName string)
	NotifyWelcome(toEmail, fullName string)
	NotifyPasswordReset(toEmail, resetToken string)
}

type EmailNotifier struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, logger: logger}
}

func (n *EmailNotifier) NotifyShared(toEmail, ownerName, fileName string) {
	subject := "A file has been shared with you"
	body := fmt.Sprintf("%s has shared the file %q with you.\r\nSign in to view it.", ownerName, fileName)
	n.sendAsync(toEmail, subject, body)
}

func (n *EmailNotifier) NotifyWelcome(toEmail, fullName string) {
	subject := "Welcome to File Sharing System"
	body := fmt.Sprintf("Hello %s,\r\n\r\nYour account is ready. Upload a file to get started.", fullName)
	n.sendAsync(toEmail, subject, body)
}

func (n *EmailNotifier) NotifyPasswordReset(toEmail, resetToken string) {
	subject := "Password Reset Request"
	body := fmt.Sprintf("A password reset was requested for this address.\r\nReset token: %s\r\n\r\nIf you did not request this, ignore this message.", resetToken)
	n.sendAsync(toEmail, subject, body)
}

// sendAsync fires the delivery on its own goroutine with a deadline; the
// outcome is only logged.
func (n *EmailNotifier) sendAsync(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- n.send(to, subject, body) }()

		select {
		case err := <-done:
			if err != nil {
				n.logger.Warn("email delivery failed",
					zap.String("to", to), zap.String("subject", subject), zap.Error(err))
				return
			}
			n.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
		case <-ctx.Done():
			n.logger.Warn("email delivery timed out",
				zap.String("to", to), zap.String("subject", subject))
		}
	}()
}

func (n *EmailNotifier) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.cfg.From, to, subject, body))

	addr := n.cfg.Host + ":" + n.cfg.Port
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	return smtp.SendMail(addr, auth, n.cfg.From, []string{to}, msg)
}
