// Package mailer sends receipt e-mails over SMTP.
package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"restaurant-sync/config"
	"restaurant-sync/models"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// SendReceipt mails the committed order to the customer.
func (m *Mailer) SendReceipt(to string, o *models.Order) error {
	details := fmt.Sprintf("Order #%d, table %s\nItems: %s\nTotal: %.2f",
		o.ID, o.TableNumber, o.Items, o.TotalPrice)
	return m.SendBill(to, details)
}

// SendBill mails free-form order details, as the bill page submits them.
func (m *Mailer) SendBill(to, orderDetails string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your Restaurant Order Receipt")
	msg.SetBody("text/html", fmt.Sprintf(`
		<h1>Thank you for your order!</h1>
		<p><strong>Order Details:</strong></p>
		<pre>%s</pre>`,
		html.EscapeString(orderDetails)))
	return m.dialer.DialAndSend(msg)
}
