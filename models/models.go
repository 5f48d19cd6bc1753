package models

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost    string
	SMTPPort    int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// Configured reports whether SMTP credentials are present.
func (c EmailConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}
