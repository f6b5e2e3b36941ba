package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"dently/internal/shared/config"
)

// EmailService interface for sending emails
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

// NewSMTPConfig builds the SMTP configuration from app config.
func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

// SMTPEmailService is a real SMTP implementation of the EmailService interface
type SMTPEmailService struct {
	config *SMTPConfig
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	return &SMTPEmailService{config: config}, nil
}

// validateSMTPConfig validates SMTP configuration
func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SendNotification sends an email for the notification.
func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody := generateContent(notification)
	return s.sendHTML(notification.RecipientEmail, notification.Subject, htmlBody, textBody)
}

func (s *SMTPEmailService) sendHTML(to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// sendWithSTARTTLS sends email with STARTTLS encryption
func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.config.Host,
	}

	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return w.Close()
}

// buildMessage creates the email message with proper headers
func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Date"] = time.Now().Format(time.RFC1123Z)

	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	headers["Content-Type"] = fmt.Sprintf("multipart/alternative; boundary=%s", boundary)

	var message strings.Builder
	for k, v := range headers {
		fmt.Fprintf(&message, "%s: %s\r\n", k, v)
	}
	message.WriteString("\r\n")

	if textBody != "" {
		fmt.Fprintf(&message, "--%s\r\n", boundary)
		message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		message.WriteString(textBody + "\r\n")
	}

	if htmlBody != "" {
		fmt.Fprintf(&message, "--%s\r\n", boundary)
		message.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		message.WriteString(htmlBody + "\r\n")
	}

	fmt.Fprintf(&message, "--%s--\r\n", boundary)

	return []byte(message.String())
}

// formatCZK renders a minor-unit amount as whole crowns.
func formatCZK(minor int64) string {
	return fmt.Sprintf("%d Kč", minor/100)
}

// generateContent creates the email bodies for each notification type.
func generateContent(notification *EmailNotification) (string, string) {
	data := notification.TemplateData
	name := notification.RecipientName

	switch notification.Type {
	case NotificationTypeBookingConfirmation:
		htmlBody := fmt.Sprintf(`
			<h2>Rezervace přijata</h2>
			<p>Dobrý den, %s,</p>
			<p>přijali jsme Vaši rezervaci termínu <strong>%v v %v</strong> (%v).</p>
			<p>Rezervaci dokončíte uhrazením kauce %v do 30 minut: <a href="%v">zaplatit kauci</a>.</p>
			<p>Vaše dentální hygiena</p>
		`, name, data["date"], data["time"], data["service"], data["deposit"], data["payment_url"])

		textBody := fmt.Sprintf(
			"Dobrý den, %s,\n\npřijali jsme Vaši rezervaci termínu %v v %v (%v).\nRezervaci dokončíte uhrazením kauce %v do 30 minut: %v\n\nVaše dentální hygiena",
			name, data["date"], data["time"], data["service"], data["deposit"], data["payment_url"])

		return htmlBody, textBody

	case NotificationTypePaymentConfirmation:
		htmlBody := fmt.Sprintf(`
			<h2>Rezervace potvrzena</h2>
			<p>Dobrý den, %s,</p>
			<p>kauce %v byla uhrazena a Váš termín <strong>%v v %v</strong> (%v) je závazně rezervován.</p>
			<p>Těšíme se na Vás.</p>
			<p>Vaše dentální hygiena</p>
		`, name, data["deposit"], data["date"], data["time"], data["service"])

		textBody := fmt.Sprintf(
			"Dobrý den, %s,\n\nkauce %v byla uhrazena a Váš termín %v v %v (%v) je závazně rezervován.\nTěšíme se na Vás.\n\nVaše dentální hygiena",
			name, data["deposit"], data["date"], data["time"], data["service"])

		return htmlBody, textBody

	case NotificationTypeAppointmentReminder:
		htmlBody := fmt.Sprintf(`
			<h2>Připomenutí termínu</h2>
			<p>Dobrý den, %s,</p>
			<p>připomínáme Váš zítřejší termín <strong>%v v %v</strong> (%v).</p>
			<p>Vaše dentální hygiena</p>
		`, name, data["date"], data["time"], data["service"])

		textBody := fmt.Sprintf(
			"Dobrý den, %s,\n\npřipomínáme Váš zítřejší termín %v v %v (%v).\n\nVaše dentální hygiena",
			name, data["date"], data["time"], data["service"])

		return htmlBody, textBody

	case NotificationTypeBookingCancellation:
		refundLine := "Kauce v tomto případě propadá."
		if refund, ok := data["refund"]; ok {
			refundLine = fmt.Sprintf("Kauce %v Vám bude vrácena.", refund)
		}

		htmlBody := fmt.Sprintf(`
			<h2>Rezervace zrušena</h2>
			<p>Dobrý den, %s,</p>
			<p>Váš termín <strong>%v v %v</strong> (%v) byl zrušen.</p>
			<p>%s</p>
			<p>Vaše dentální hygiena</p>
		`, name, data["date"], data["time"], data["service"], refundLine)

		textBody := fmt.Sprintf(
			"Dobrý den, %s,\n\nVáš termín %v v %v (%v) byl zrušen.\n%s\n\nVaše dentální hygiena",
			name, data["date"], data["time"], data["service"], refundLine)

		return htmlBody, textBody

	default:
		htmlBody := fmt.Sprintf("<p>Dobrý den, %s,</p><p>%s</p>", name, notification.Subject)
		textBody := fmt.Sprintf("Dobrý den, %s,\n\n%s", name, notification.Subject)
		return htmlBody, textBody
	}
}

// MockEmailService logs instead of sending; used in development.
type MockEmailService struct{}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// SendNotification logs a mock notification
func (s *MockEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	log.Printf("[MOCK EMAIL] %s to %s (%s)",
		notification.Type,
		notification.RecipientEmail,
		notification.RecipientName,
	)
	return nil
}
