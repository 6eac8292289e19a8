package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"go-storefront-orders/models"
)

// Notifier is the dispatcher boundary the workflow talks to. Both methods
// are best effort: failures are logged, never surfaced to the caller.
type Notifier interface {
	// NotifyStatusChange mails the customer about a status transition.
	NotifyStatusChange(order models.Order, newStatus string)
	// NotifyNewOrder mails the tenant operator that an order arrived.
	NotifyNewOrder(order models.Order, tenantLabel string)
}

// Mailer sends a rendered message. SMTPMailer is the production
// implementation; tests use a recording fake.
type Mailer interface {
	Send(to string, subject string, htmlBody string) error
}

type SMTPMailer struct {
	Addr     string // host:port
	Host     string
	Username string
	Password string
	From     string
}

func (m *SMTPMailer) Send(to string, subject string, htmlBody string) error {
	headers := []string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}
	msg := []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody)

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(m.Addr, auth, m.From, []string{to}, msg)
}

// NotificationService renders and sends the status-change and new-order
// emails.
type NotificationService struct {
	mailer        Mailer
	businessName  string
	businessEmail string
}

func NewNotificationService(mailer Mailer, businessName string, businessEmail string) *NotificationService {
	return &NotificationService{
		mailer:        mailer,
		businessName:  businessName,
		businessEmail: businessEmail,
	}
}

// Banner colors used in the status email, keyed by status.
var statusBannerColors = map[string]string{
	models.StatusPending:        "#db4437",
	models.StatusProcessing:     "#f4b400",
	models.StatusReady:          "#0f9d58",
	models.StatusOutForDelivery: "#ab47bc",
	models.StatusDelivered:      "#0f9d58",
	models.StatusCancelled:      "#9aa0a6",
}

func (n *NotificationService) NotifyStatusChange(order models.Order, newStatus string) {
	// An absent or invalid address silently skips the send; the customer
	// simply opted out of email updates.
	if !strings.Contains(order.Email, "@") {
		log.Printf("no valid email found for order %s, skipping notification", order.Order_id)
		return
	}

	subject := fmt.Sprintf("Order Update: %s is %s", order.Order_id, newStatus)
	body := renderStatusEmail(n.businessName, order, newStatus)

	if err := n.mailer.Send(order.Email, subject, body); err != nil {
		log.Printf("failed to send status email for order %s: %v", order.Order_id, err)
	}
}

func (n *NotificationService) NotifyNewOrder(order models.Order, tenantLabel string) {
	if n.businessEmail == "" || !strings.Contains(n.businessEmail, "@") {
		return
	}

	subject := fmt.Sprintf("New Order %s - %s", order.Order_id, tenantLabel)
	body := fmt.Sprintf(
		"<p>A new order was received for <strong>%s</strong>.</p>"+
			"<p>Order <strong>%s</strong> from %s<br>Items: %s<br>Total: %s</p>"+
			"<p>Note: %s</p>",
		tenantLabel, order.Order_id, order.Customer_name, order.Items, order.Total_amount, order.Note,
	)

	if err := n.mailer.Send(n.businessEmail, subject, body); err != nil {
		log.Printf("failed to send new-order email for order %s: %v", order.Order_id, err)
	}
}

func renderStatusEmail(businessName string, order models.Order, newStatus string) string {
	statusColor, ok := statusBannerColors[newStatus]
	if !ok {
		statusColor = "#202124"
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(fmt.Sprintf(`<div style="background-color: #202124; padding: 30px 20px; text-align: center;"><h1 style="color: #ffffff; margin: 0;">ORDER UPDATE</h1><p style="color: #9aa0a6; margin: 5px 0 0;">%s</p></div>`, businessName))
	b.WriteString(fmt.Sprintf(`<div style="background-color: %s; padding: 15px; text-align: center;"><span style="color: #ffffff; font-weight: bold; text-transform: uppercase;">%s</span></div>`, statusColor, newStatus))
	b.WriteString(fmt.Sprintf(`<div style="padding: 30px 20px;"><p>Hi <strong>%s</strong>,</p><p>Your order <strong>%s</strong> has been updated to <strong style="color: %s">%s</strong>.</p>`, order.Customer_name, order.Order_id, statusColor, newStatus))
	b.WriteString(fmt.Sprintf(`<div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px;"><h3 style="margin: 0 0 15px 0;">Order Summary</h3><div style="white-space: pre-wrap;">%s</div><div style="border-top: 1px solid #dadce0; padding-top: 15px; margin-top: 15px;"><strong>Total Amount: %s</strong></div></div>`, order.Items, order.Total_amount))
	b.WriteString(statusCallout(newStatus))
	b.WriteString(`<p>If you have any questions, please reply to this email.</p><p><strong>Thank you for your business!</strong></p></div></div>`)
	return b.String()
}

// statusCallout returns the extra banner some statuses carry.
func statusCallout(status string) string {
	switch status {
	case models.StatusOutForDelivery:
		return `<div style="background-color: #e8f0fe; color: #1967d2; padding: 15px; border-radius: 4px; margin-top: 20px;"><strong>On the way!</strong> Please be ready to receive your order at the delivery location.</div>`
	case models.StatusDelivered:
		return `<div style="background-color: #e6f4ea; color: #137333; padding: 15px; border-radius: 4px; margin-top: 20px;"><strong>Delivered!</strong> We hope you enjoy your purchase.</div>`
	case models.StatusCancelled:
		return `<div style="background-color: #fce8e6; color: #c5221f; padding: 15px; border-radius: 4px; margin-top: 20px;"><strong>Order Cancelled.</strong> If this was a mistake, please contact us immediately.</div>`
	}
	return ""
}
