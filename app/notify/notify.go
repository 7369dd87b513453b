package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mytheresa/go-storefront/app/checkout"
	"gopkg.in/gomail.v2"
)

// Notifier delivers the manual payment instructions once a method is chosen.
type Notifier interface {
	SendPaymentInstructions(ctx context.Context, summary checkout.Summary) error
}

type EmailNotifier struct {
	from string
	send func(m ...*gomail.Message) error
}

func NewEmailNotifier(host string, port int, user, pass, from string) *EmailNotifier {
	dialer := gomail.NewDialer(host, port, user, pass)
	return &EmailNotifier{
		from: from,
		send: dialer.DialAndSend,
	}
}

func (n *EmailNotifier) SendPaymentInstructions(ctx context.Context, summary checkout.Summary) error {
	if summary.Customer.Email == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", summary.Customer.Email)
	m.SetHeader("Subject", fmt.Sprintf("Payment instructions for your %s order", summary.PaymentMethod))
	m.SetBody("text/plain", instructionsBody(summary))

	errc := make(chan error, 1)
	go func() { errc <- n.send(m) }()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}

func instructionsBody(summary checkout.Summary) string {
	var b strings.Builder

	name := strings.TrimSpace(summary.Customer.FirstName + " " + summary.Customer.LastName)
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "Thank you for your order. %s payments are completed manually.\n", summary.PaymentMethod)
	b.WriteString("We will follow up with the details you need to finish your purchase.\n\n")

	b.WriteString("Order summary:\n")
	for _, l := range summary.Lines {
		fmt.Fprintf(&b, "  %d x %s  $%s\n", l.Quantity, l.Item.Title, l.LineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: $%s\n\n", summary.Total.StringFixed(2))

	c := summary.Customer
	b.WriteString("Shipping to:\n")
	fmt.Fprintf(&b, "  %s\n  %s, %s %s\n", c.Address, c.City, c.State, c.ZipCode)
	if c.Phone != "" {
		fmt.Fprintf(&b, "  Phone: %s\n", c.Phone)
	}
	return b.String()
}

// LogNotifier writes the instructions to the log when SMTP is not configured.
type LogNotifier struct{}

func (LogNotifier) SendPaymentInstructions(ctx context.Context, summary checkout.Summary) error {
	log.Printf("Payment instructions pending for %q: method=%s lines=%d total=%s",
		summary.Customer.Email, summary.PaymentMethod, len(summary.Lines), summary.Total.StringFixed(2))
	return nil
}
