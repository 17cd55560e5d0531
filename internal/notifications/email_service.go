package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"cinebook/internal/shared/config"
)

// EmailService sends booking confirmation emails
type EmailService interface {
	SendConfirmation(ctx context.Context, notification *BookingNotification) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
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

// NewSMTPConfig builds SMTP config from application config
func NewSMTPConfig(cfg *config.Config) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

const confirmationTemplate = `
{{define "html"}}
<h2>Your booking is confirmed!</h2>
<p>Hi {{.RecipientName}},</p>
<p>Your tickets for <strong>{{.MovieTitle}}</strong> are booked.</p>
<ul>
	<li>Theater: {{.TheaterName}}{{if .ScreenName}} ({{.ScreenName}}){{end}}</li>
	<li>Showtime: {{.ShowtimeStart.Format "Mon, 02 Jan 2006 15:04"}}</li>
	<li>Seats: {{.SeatList}}</li>
	<li>Total Paid: ${{.TotalDollars}}</li>
</ul>
<p>Booking reference: <strong>{{.BookingID}}</strong></p>
<p>See you at the movies!<br>The CineBook Team</p>
{{end}}
{{define "text"}}
Hi {{.RecipientName}},

Your tickets for {{.MovieTitle}} are booked.

Theater: {{.TheaterName}}{{if .ScreenName}} ({{.ScreenName}}){{end}}
Showtime: {{.ShowtimeStart.Format "Mon, 02 Jan 2006 15:04"}}
Seats: {{.SeatList}}
Total Paid: ${{.TotalDollars}}

Booking reference: {{.BookingID}}

See you at the movies!
The CineBook Team
{{end}}`

// SMTPEmailService is a real SMTP implementation of the EmailService interface
type SMTPEmailService struct {
	config   *SMTPConfig
	template *template.Template
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	tmpl, err := template.New("booking_confirmation").Parse(confirmationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse confirmation template: %w", err)
	}

	return &SMTPEmailService{
		config:   config,
		template: tmpl,
	}, nil
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
	if config.Username == "" {
		return fmt.Errorf("SMTP username is required")
	}
	if config.Password == "" {
		return fmt.Errorf("SMTP password is required")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

type confirmationData struct {
	*BookingNotification
	SeatList     string
	TotalDollars string
}

// SendConfirmation renders the confirmation template and emails it
func (s *SMTPEmailService) SendConfirmation(ctx context.Context, notification *BookingNotification) error {
	log.Printf("📧 [SMTP] Sending booking confirmation to %s (%s)",
		notification.RecipientEmail, notification.RecipientName)

	data := confirmationData{
		BookingNotification: notification,
		SeatList:            strings.Join(notification.Seats, ", "),
		TotalDollars:        fmt.Sprintf("%.2f", float64(notification.TotalAmount)/100),
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := s.template.ExecuteTemplate(&htmlBuf, "html", data); err != nil {
		return fmt.Errorf("failed to render HTML confirmation: %w", err)
	}
	if err := s.template.ExecuteTemplate(&textBuf, "text", data); err != nil {
		return fmt.Errorf("failed to render text confirmation: %w", err)
	}

	subject := fmt.Sprintf("🎬 Booking Confirmed: %s", notification.MovieTitle)
	return s.SendHTML(ctx, notification.RecipientEmail, subject, htmlBuf.String(), textBuf.String())
}

// SendHTML sends an HTML email
func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
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

	log.Printf("📧 [SMTP] Email sent successfully to %s", to)
	return nil
}

// sendWithSTARTTLS sends email with STARTTLS encryption (recommended for Gmail)
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

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n"

	if textBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/plain; charset=UTF-8\r\n"
		message += "\r\n"
		message += textBody + "\r\n"
	}

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/html; charset=UTF-8\r\n"
		message += "\r\n"
		message += htmlBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)

	return []byte(message)
}

// MockEmailService logs instead of sending, for local development
type MockEmailService struct{}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

func (s *MockEmailService) SendConfirmation(ctx context.Context, notification *BookingNotification) error {
	log.Printf("📧 [MOCK] Booking confirmation to %s (%s) for %s, seats %v",
		notification.RecipientEmail, notification.RecipientName,
		notification.MovieTitle, notification.Seats)
	return nil
}

func (s *MockEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log.Printf("📧 [MOCK] To: %s, Subject: %s", to, subject)
	return nil
}
