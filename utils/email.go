// utils/email.go
package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendCredentialsEmail mails login credentials to a newly approved customer
func (es *EmailService) SendCredentialsEmail(toEmail, name, username, password string) error {
	subject := "Your SV Pharma Account Is Ready"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your connection request has been approved. You can now log in with:<br><br>Username: <strong>%s</strong><br>Password: <strong>%s</strong><br><br>Please change your password after your first login.",
		name, username, password,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendPaymentStatusEmail notifies a customer that a payment was approved or rejected
func (es *EmailService) SendPaymentStatusEmail(toEmail, name, status, reason string, amount float64) error {
	subject := fmt.Sprintf("Payment %s - SV Pharma", status)
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your payment of <strong>Rs. %.2f</strong> has been <strong>%s</strong>.",
		name, amount, status,
	)
	if reason != "" {
		htmlContent += fmt.Sprintf("<br><br>Reason: %s", reason)
	}
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderStatusEmail notifies a customer of an order status change
func (es *EmailService) SendOrderStatusEmail(toEmail, name, orderID, status string) error {
	subject := "Order Status Updated - SV Pharma"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your order (ID: %s) is now <strong>%s</strong>.<br><br>Thank you for ordering with SV Pharma!",
		name, orderID, status,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOTPEmail mails a one-time verification code
func (es *EmailService) SendOTPEmail(toEmail, code string) error {
	subject := "Your SV Pharma Verification Code"
	htmlContent := fmt.Sprintf(
		"<strong>Your verification code is: %s</strong><br><br>It expires in 5 minutes and can be used once.",
		code,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
