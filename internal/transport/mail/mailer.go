package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// Mailer delivers the verification and password-reset e-mails over SMTP. The
// token links point at the frontend, which calls back into the API.
type Mailer struct {
	host        string
	port        string
	username    string
	password    string
	from        string
	frontendURL string
}

func NewMailer(host, port, username, password, from, frontendURL string) *Mailer {
	return &Mailer{
		host:        strings.TrimSpace(host),
		port:        strings.TrimSpace(port),
		username:    username,
		password:    password,
		from:        strings.TrimSpace(from),
		frontendURL: strings.TrimRight(strings.TrimSpace(frontendURL), "/"),
	}
}

func (m *Mailer) SendVerification(ctx context.Context, email, name, token string) error {
	link := fmt.Sprintf("%s/auth/verify/%s", m.frontendURL, token)
	body := fmt.Sprintf(`<h2>Welcome to QuizeWeb, %s!</h2>
<p>Please click the link below to verify your email:</p>
<a href="%s">Verify Email</a>
<p>This link will expire in 24 hours.</p>
<p>If you didn't request this verification, please ignore this email.</p>`, name, link)
	return m.send(ctx, email, "Verify Your Email", body)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, email, name, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s", m.frontendURL, token)
	body := fmt.Sprintf(`<h2>Password Reset Request</h2>
<p>Hello %s,</p>
<p>We received a request to reset your password. Please click the link below to reset your password:</p>
<a href="%s">Reset Password</a>
<p>This link will expire in 10 minutes.</p>
<p>If you didn't request this password reset, please ignore this email.</p>`, name, link)
	return m.send(ctx, email, "Reset Your Password", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if m.host == "" || m.port == "" || m.from == "" {
		return errors.New("mailer missing configuration")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	message := strings.Builder{}
	message.WriteString(fmt.Sprintf("From: QuizeWeb %s\r\n", m.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", to))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	message.WriteString(htmlBody)
	message.WriteString("\r\n")

	addr := net.JoinHostPort(m.host, m.port)
	var auth smtp.Auth
	if m.username != "" || m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(message.String()))
}
