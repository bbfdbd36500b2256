package services

import (
	"fmt"

	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/types"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SendPasswordResetMail delivers a password reset link over SMTP. The body is
// Hebrew and rendered right-to-left.
func SendPasswordResetMail(cfg *config.Config, toName, toEmail, token string) error {
	if !cfg.MailConfigured() {
		return types.External("שירות הדואר אינו זמין כעת")
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", cfg.BaseURL, token)

	msg := mail.NewMsg()
	if err := msg.From(cfg.SMTPFrom); err != nil {
		return err
	}
	if err := msg.To(toEmail); err != nil {
		return err
	}
	msg.Subject("איפוס סיסמה - קשר CRM")
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(`<div dir="rtl" style="font-family: Arial, sans-serif;">
<p>שלום %s,</p>
<p>התקבלה בקשה לאיפוס הסיסמה שלך. לחיצה על הקישור תוביל לבחירת סיסמה חדשה:</p>
<p><a href="%s">איפוס סיסמה</a></p>
<p>הקישור תקף ל-24 שעות. אם לא ביקשת איפוס, ניתן להתעלם מהודעה זו.</p>
</div>`, toName, resetURL))

	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPass),
	}
	if cfg.SMTPSecure {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	logging.Log.Info("password reset mail sent", zap.String("email", toEmail))
	return nil
}
