package alert

import (
	"context"

	gomail "gopkg.in/gomail.v2"

	"github.com/vision-lab/trainforge/pkg/config"
	"github.com/vision-lab/trainforge/pkg/logutils"
)

type smtpAlerter struct {
	dialer *gomail.Dialer
	from   string
}

func newSMTPAlerter() alertHandlerInterface {
	smtpConfig := config.GetConfig().SMTP
	return &smtpAlerter{
		dialer: gomail.NewDialer(smtpConfig.Host, smtpConfig.Port, smtpConfig.User, smtpConfig.Password),
		from:   smtpConfig.Notify,
	}
}

func (sa *smtpAlerter) SendMessageTo(_ context.Context, email, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", sa.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := sa.dialer.DialAndSend(m); err != nil {
		logutils.Log.Errorf("failed to send email to %s: %v", email, err)
		return err
	}
	logutils.Log.Infof("sent email to %s", email)
	return nil
}
