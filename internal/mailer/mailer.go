// Package mailer sends the admin a note when the contact form is used.
// Delivery is best effort end to end: the submitter is told their message
// was received whether or not this notification makes it out.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/openfolio/portfolio-backend/config"
)

// Contact is the subset of a stored message the notification needs.
type Contact struct {
	Name      string
	Email     string
	Subject   string
	Body      string
	CreatedAt time.Time
}

// Notifier delivers contact notifications over SMTP. Outbound sends are
// throttled so a contact-form burst cannot flood the relay.
type Notifier struct {
	cfg     config.SMTPConfig
	limiter *rate.Limiter
	send    func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg config.SMTPConfig) *Notifier {
	return &Notifier{
		cfg: cfg,
		// one notification per 10s sustained, short bursts allowed
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 5),
		send:    smtp.SendMail,
	}
}

// ContactNotification emails the admin about a new message. Failures are
// logged and swallowed; callers never see them.
func (n *Notifier) ContactNotification(msg Contact) {
	if !n.limiter.Allow() {
		log.Printf("mail notification dropped (throttled): %s", msg.Subject)
		return
	}

	body := n.compose(msg)
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var a smtp.Auth
	if n.cfg.User != "" {
		a = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	}

	if err := n.send(addr, a, n.cfg.FromEmail, []string{n.cfg.AdminEmail}, body); err != nil {
		log.Printf("mail notification failed: %v", err)
		return
	}
	log.Printf("mail notification sent for message from %s", msg.Email)
}

func (n *Notifier) compose(msg Contact) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: Portfolio <%s>\r\n", n.cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", n.cfg.AdminEmail)
	fmt.Fprintf(&b, "Subject: New contact message: %s\r\n", sanitizeHeader(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	fmt.Fprintf(&b, "From: %s <%s>\r\n", msg.Name, msg.Email)
	fmt.Fprintf(&b, "Date: %s\r\n\r\n", msg.CreatedAt.Format(time.RFC1123))
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// sanitizeHeader strips CR/LF so user input cannot inject extra headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
