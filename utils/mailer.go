package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"promptdeck/config"
)

// Embedded email templates
var emailTemplates = map[string]string{
	"verify": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Verify your email</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .otp-code { font-size: 24px; font-weight: bold; color: #3498db; margin: 20px 0; text-align: center; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Confirm your email</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>Enter this code to verify your email address:</p>

        <div class="otp-code">{{.OTP}}</div>

        <p>This code will expire in 15 minutes. Please don't share this code with anyone.</p>
        <p>Once verified, head back to <a href="{{.RedirectURL}}">{{.RedirectURL}}</a> to sign in.</p>
    </div>

    <div class="footer">
        <p>If you didn't create an account, you can safely ignore this email.</p>
        <p>&copy; {{.Year}} promptdeck. All rights reserved.</p>
    </div>
</body>
</html>`,
}

// SendVerificationEmail sends the sign-up confirmation code to the
// given address, pointing back at the configured frontend URL.
func SendVerificationEmail(to, otp string) error {
	if config.AppConfig.SMTPHost == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	tmpl, err := template.New("verify").Parse(emailTemplates["verify"])
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	err = tmpl.Execute(&body, map[string]interface{}{
		"OTP":         otp,
		"RedirectURL": config.AppConfig.FrontendURL,
		"Year":        time.Now().Year(),
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.AppConfig.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Verify your promptdeck email")
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUsername,
		config.AppConfig.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}
