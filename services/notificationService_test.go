package services

import (
	"errors"
	"strings"
	"testing"

	"go-storefront-orders/models"
)

type recordingMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *recordingMailer) Send(to string, subject string, htmlBody string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return m.err
}

func sampleOrder(email string) models.Order {
	return models.Order{
		Order_id:      "ORD-1700000000000-ab12cd34",
		Customer_name: "Ana Cruz",
		Email:         email,
		Items:         "Milk Tea x2",
		Total_amount:  "₱240.00",
	}
}

func TestNotifyStatusChangeSendsEmail(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewNotificationService(mailer, "Big Brew", "owner@bigbrew.ph")

	svc.NotifyStatusChange(sampleOrder("ana@example.com"), models.StatusProcessing)

	if len(mailer.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(mailer.sent))
	}
	mail := mailer.sent[0]
	if mail.to != "ana@example.com" {
		t.Errorf("to = %q", mail.to)
	}
	if mail.subject != "Order Update: ORD-1700000000000-ab12cd34 is Processing" {
		t.Errorf("subject = %q", mail.subject)
	}
	if !strings.Contains(mail.body, "Big Brew") || !strings.Contains(mail.body, "₱240.00") {
		t.Error("body missing business name or total")
	}
}

func TestNotifyStatusChangeCallouts(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{models.StatusOutForDelivery, "On the way!"},
		{models.StatusDelivered, "Delivered!"},
		{models.StatusCancelled, "Order Cancelled."},
	}
	for _, tc := range cases {
		mailer := &recordingMailer{}
		svc := NewNotificationService(mailer, "Big Brew", "")
		svc.NotifyStatusChange(sampleOrder("ana@example.com"), tc.status)
		if len(mailer.sent) != 1 {
			t.Fatalf("%s: sent = %d", tc.status, len(mailer.sent))
		}
		if !strings.Contains(mailer.sent[0].body, tc.want) {
			t.Errorf("%s: body missing callout %q", tc.status, tc.want)
		}
	}

	// plain statuses carry no callout
	mailer := &recordingMailer{}
	svc := NewNotificationService(mailer, "Big Brew", "")
	svc.NotifyStatusChange(sampleOrder("ana@example.com"), models.StatusProcessing)
	if strings.Contains(mailer.sent[0].body, "On the way!") {
		t.Error("Processing email should not carry a delivery callout")
	}
}

func TestNotifyStatusChangeSkipsInvalidAddress(t *testing.T) {
	for _, email := range []string{"", "not-an-email"} {
		mailer := &recordingMailer{}
		svc := NewNotificationService(mailer, "Big Brew", "")
		svc.NotifyStatusChange(sampleOrder(email), models.StatusReady)
		if len(mailer.sent) != 0 {
			t.Errorf("email %q: sent = %d, want 0 (silent skip)", email, len(mailer.sent))
		}
	}
}

func TestNotifySendFailureIsSwallowed(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc := NewNotificationService(mailer, "Big Brew", "owner@bigbrew.ph")

	// must not panic or propagate; failure is logged only
	svc.NotifyStatusChange(sampleOrder("ana@example.com"), models.StatusReady)
	svc.NotifyNewOrder(sampleOrder("ana@example.com"), "Big Brew")
}

func TestNotifyNewOrderGoesToOperator(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewNotificationService(mailer, "Big Brew", "owner@bigbrew.ph")

	svc.NotifyNewOrder(sampleOrder("ana@example.com"), "Big Brew")
	if len(mailer.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(mailer.sent))
	}
	if mailer.sent[0].to != "owner@bigbrew.ph" {
		t.Errorf("to = %q, want operator address", mailer.sent[0].to)
	}

	// no operator address configured: skip silently
	quiet := NewNotificationService(mailer, "Big Brew", "")
	quiet.NotifyNewOrder(sampleOrder("ana@example.com"), "Big Brew")
	if len(mailer.sent) != 1 {
		t.Error("new-order mail sent despite missing operator address")
	}
}
