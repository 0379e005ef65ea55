// Package mailer sends invoice notification emails over SMTP with the
// generated PDF attached.
package mailer

import (
	"crypto/tls"
	"fmt"
	"net/mail"
	"net/url"
	"os"
	"strings"

	"invoicedesk-backend/pdfgen"

	"github.com/dajohi/goemail"
)

// Client wraps an SMTP connection preset with the sender address.
type Client struct {
	smtp     *goemail.SMTP
	from     string
	fromName string
}

// New dials nothing; it prepares the smtps context for host using the
// account credentials. user doubles as the From address.
func New(user, pass, host string) (*Client, error) {
	a, err := mail.ParseAddress(user)
	if err != nil {
		return nil, fmt.Errorf("invalid mail address %q: %w", user, err)
	}

	raw := fmt.Sprintf("smtps://%s:%s@%s",
		url.QueryEscape(a.Address), url.QueryEscape(pass), host)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	smtp, err := goemail.NewSMTP(u.String(), &tls.Config{})
	if err != nil {
		return nil, err
	}

	return &Client{smtp: smtp, from: a.Address, fromName: a.Name}, nil
}

// Subject is the notification subject line for a purchase order.
func Subject(poNumber string) string {
	return fmt.Sprintf("Invoice Generated for PO #%s", poNumber)
}

// BuildBody renders the plain-text summary of the submitted fields.
func BuildBody(poNumber string, fields []pdfgen.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\nAn invoice has been generated for PO Number: %s.\n\nInvoice Details:\n", poNumber)
	for _, f := range fields {
		fmt.Fprintf(&b, "  %s: %s\n", f.Key, f.Value)
	}
	b.WriteString("\nThank you.\n")
	return b.String()
}

// SendInvoice emails the PDF at pdfPath to the purchase-order issuer.
// This is a synchronous call on the request path; there is no retry and a
// slow provider blocks the caller.
func (c *Client) SendInvoice(to, poNumber, body, pdfPath string) error {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return fmt.Errorf("reading attachment: %w", err)
	}

	msg := goemail.NewMessage(c.from, Subject(poNumber), body)
	if c.fromName != "" {
		msg.SetName(c.fromName)
	}
	msg.AddTo(to)
	msg.AddAttachment(fmt.Sprintf("Invoice_%s.pdf", poNumber), data)

	return c.smtp.Send(msg)
}
