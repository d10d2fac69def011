// Package notify delivers email notifications. Delivery is fire-and-forget
// from the core's perspective: a failed send is logged and never fails the
// operation that triggered it.
package notify

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const DefaultTimeout = 10 * time.Second

type Notifier interface {
	Send(ctx context.Context, subject string, recipients []string, body string) error
}

// SMTPNotifier talks plain SMTP (MailHog in dev, a relay in production).
type SMTPNotifier struct {
	host    string
	port    int
	sender  string
	timeout time.Duration
}

func NewSMTPNotifier(host string, port int, sender string, timeout time.Duration) *SMTPNotifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SMTPNotifier{host: host, port: port, sender: sender, timeout: timeout}
}

func (n *SMTPNotifier) Send(ctx context.Context, subject string, recipients []string, body string) error {
	to := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if strings.TrimSpace(r) != "" {
			to = append(to, strings.TrimSpace(r))
		}
	}
	if len(to) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}

	// Bound the whole SMTP exchange, not just the dial.
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, n.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := client.Mail(n.sender); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.sender, strings.Join(to, ", "), subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	return client.Quit()
}

// Dispatch sends a notification in the background. Failures are logged
// and swallowed; the triggering operation has already committed.
func Dispatch(n Notifier, subject string, recipients []string, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()
		if err := n.Send(ctx, subject, recipients, body); err != nil {
			log.Printf("notification %q failed: %v", subject, err)
		}
	}()
}
