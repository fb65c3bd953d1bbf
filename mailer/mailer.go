package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/nijaru/autocaption/errors"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const (
	DefaultPort = 587
	DefaultFrom = `"Auto Caption" <noreply@example.com>`
	Subject     = "Your Captioned Video is Ready!"
)

type Config struct {
	Host   string
	Port   int
	User   string
	Pass   string
	Secure bool
	From   string
}

// Configured reports whether enough is set to reach an SMTP server.
func (c Config) Configured() bool {
	return c.Host != "" && c.User != "" && c.Pass != ""
}

// Mailer sends download links over SMTP.
type Mailer struct {
	cfg  Config
	send func(msgs ...*gomail.Message) error
}

func New(cfg Config) *Mailer {
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	if cfg.From == "" {
		cfg.From = DefaultFrom
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	dialer.SSL = cfg.Secure
	return &Mailer{cfg: cfg, send: dialer.DialAndSend}
}

func (m *Mailer) Configured() bool {
	return m.cfg.Configured()
}

var htmlBody = template.Must(template.New("email").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Video Processing Complete</h2>
  <p>Hello,</p>
  <p>Your video has been successfully captioned and processed.</p>
  <div style="padding: 20px 0;">
    <a href="{{.}}" style="background-color: #0070f3; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">Download Video</a>
  </div>
  <p style="color: #666; font-size: 14px;">Or copy this link to your browser:</p>
  <p style="background-color: #f5f5f5; padding: 10px; border-radius: 4px; font-family: monospace; word-break: break-all;">{{.}}</p>
</div>
`))

func textBody(downloadURL string) string {
	return "Hello,\n\nYour video has been successfully processed.\n\n" +
		"You can download it using the following link:\n" + downloadURL + "\n\n" +
		"Thank you for using Multilingual Auto Caption!"
}

// Compose builds the notification message and returns it with its Message-ID.
func (m *Mailer) Compose(to, downloadURL string) (*gomail.Message, string, error) {
	from, err := mail.ParseAddress(m.cfg.From)
	if err != nil {
		return nil, "", errors.Internal("mailer.Compose", pkgerrors.Wrap(err, "parsing from address"), "invalid sender address")
	}

	var html bytes.Buffer
	if err := htmlBody.Execute(&html, downloadURL); err != nil {
		return nil, "", errors.Internal("mailer.Compose", err, "failed to render email")
	}

	domain := "localhost"
	if at := strings.LastIndex(from.Address, "@"); at >= 0 {
		domain = from.Address[at+1:]
	}
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", Subject)
	msg.SetHeader("Message-ID", messageID)
	msg.SetBody("text/plain", textBody(downloadURL))
	msg.AddAlternative("text/html", html.String())
	return msg, messageID, nil
}

// Send delivers the download link to the given address. An unconfigured
// transport is an error; nothing is simulated.
func (m *Mailer) Send(ctx context.Context, to, downloadURL string) (string, error) {
	const op = "mailer.Send"

	if !m.Configured() {
		return "", errors.Unavailable(op, nil, "email transport is not configured")
	}

	msg, messageID, err := m.Compose(to, downloadURL)
	if err != nil {
		return "", err
	}

	done := make(chan error, 1)
	go func() {
		done <- m.send(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", errors.E(errors.KindNotificationFailed, op, err, "failed to send email")
		}
	case <-ctx.Done():
		return "", errors.E(errors.KindNotificationFailed, op, ctx.Err(), "email delivery did not finish in time")
	}

	logrus.WithFields(logrus.Fields{
		"to":        to,
		"messageId": messageID,
		"host":      m.cfg.Host,
	}).Info("Email sent")
	return messageID, nil
}
