package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
</head>
<body>
    <h2>Welcome to {{.Company}}</h2>
    <p>Hello {{.Name}},</p>
    <p>{{.Company}} has created an account for you. Sign in with <strong>{{.Email}}</strong> to start tracking your objectives and key results.</p>
    <p>&copy; {{.Year}} OKR Tracker</p>
</body>
</html>`))

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

func NewMailer(host string, port int, username, password, fromEmail, fromName string) *Mailer {
	return &Mailer{
		dialer:    gomail.NewDialer(host, port, username, password),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendWelcome tells a newly registered user which company added them.
func (m *Mailer) SendWelcome(to, name, company string) error {
	msg, err := m.welcomeMessage(to, name, company)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

func (m *Mailer) welcomeMessage(to, name, company string) (*gomail.Message, error) {
	subject := fmt.Sprintf("You have been added to %s", company)

	var body bytes.Buffer
	err := welcomeTemplate.Execute(&body, map[string]interface{}{
		"Subject": subject,
		"Company": company,
		"Name":    name,
		"Email":   to,
		"Year":    time.Now().Year(),
	})
	if err != nil {
		return nil, fmt.Errorf("error executing template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())
	return msg, nil
}
