package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
)

// EmailService handles email sending
type EmailService struct {
	config models.EmailConfig
}

func NewEmailService(config models.EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// BuildWelcomeEmail renders the message sent to a new directory entry.
func (es *EmailService) BuildWelcomeEmail(emp *models.Employee) (string, string) {
	subject := "Welcome to the team"
	position := emp.Position
	if position == "" {
		position = "your new role"
	}
	body := fmt.Sprintf(`Hello %s,

You have been added to the employee directory as %s.

If any of your details are wrong, please contact HR.

Best regards,
%s`, emp.Name, position, es.config.FromName)

	return subject, body
}

// SendEmail delivers over SMTP, or logs the message when SMTP credentials
// are not configured.
func (es *EmailService) SendEmail(to, subject, body string) error {
	if !es.config.Configured() {
		utils.LogInfo("SMTP not configured, logging email instead")
		utils.LogInfo("=== EMAIL ===")
		utils.LogInfo("To: %s", to)
		utils.LogInfo("Subject: %s", subject)
		utils.LogInfo("Body: %s", body)
		utils.LogInfo("=============")
		return nil
	}

	return es.sendEmail(to, subject, body)
}

// sendEmail uses implicit TLS on 465 and STARTTLS (when offered) otherwise.
func (es *EmailService) sendEmail(to, subject, body string) error {
	utils.LogInfo("Sending email to %s: %s", to, subject)

	message := fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", es.config.FromName, es.config.FromAddress, to, subject, body)

	addr := fmt.Sprintf("%s:%d", es.config.SMTPHost, es.config.SMTPPort)

	var conn net.Conn
	var err error

	if es.config.SMTPPort == 465 {
		utils.LogDebug("Connecting to SMTP server %s with SSL", addr)
		conn, err = tls.Dial("tcp", addr, &tls.Config{ServerName: es.config.SMTPHost})
	} else {
		utils.LogDebug("Connecting to SMTP server %s (plain)", addr)
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, es.config.SMTPHost)
	if err != nil {
		return fmt.Errorf("create SMTP client: %w", err)
	}
	defer client.Quit()

	if es.config.SMTPPort != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err = client.StartTLS(&tls.Config{ServerName: es.config.SMTPHost}); err != nil {
				return fmt.Errorf("start TLS: %w", err)
			}
		}
	}

	auth := smtp.PlainAuth("", es.config.Username, es.config.Password, es.config.SMTPHost)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication: %w", err)
	}

	if err = client.Mail(es.config.FromAddress); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data writer: %w", err)
	}
	if _, err = writer.Write([]byte(message)); err != nil {
		writer.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	utils.LogInfo("Email sent successfully to %s", to)
	return nil
}
