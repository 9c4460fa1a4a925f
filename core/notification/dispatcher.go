// Package notification decides when account emails go out and what they link to.
package notification

import (
	"net/mail"
	"net/url"

	"github.com/omi-1602/Venz-edu/core"
)

const (
	VerificationSubject  = "Verify your Venz Edu account"
	PasswordResetSubject = "Reset your Venz Edu password"

	verificationTemplate  = "verify_email"
	passwordResetTemplate = "password_reset"
)

type templateData struct {
	Name string
	Link string
}

// Dispatcher sends account emails through a core.EmailService.
// It is a no-op when mail credentials are not configured; sending never blocks the caller.
type Dispatcher struct {
	mailSvc         core.EmailService
	enabled         bool
	frontendBaseURL string
	logger          core.Logger
}

func NewDispatcher(conf *core.Config, mailSvc core.EmailService, logger core.Logger) *Dispatcher {
	return &Dispatcher{
		mailSvc:         mailSvc,
		enabled:         conf.Mail.Configured(),
		frontendBaseURL: conf.FrontendBaseURL,
		logger:          logger,
	}
}

// Enabled reports whether emails are actually sent.
func (d *Dispatcher) Enabled() bool { return d.enabled }

// VerificationLink is the frontend page that confirms ownership of the account's email.
func VerificationLink(frontendBaseURL, uid string) string {
	return frontendBaseURL + "/verify?uid=" + url.QueryEscape(uid)
}

func (d *Dispatcher) dispatch(msg *core.EmailMessage) {
	if !d.enabled {
		d.logger.Debug("mail credentials not configured, skipping email: " + msg.Subject)
		return
	}
	d.mailSvc.SendMessages(msg)
}

func (d *Dispatcher) SendVerification(to mail.Address, uid string) {
	d.dispatch(&core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      VerificationSubject,
		TemplateName: verificationTemplate,
		TemplateData: templateData{Name: to.Name, Link: VerificationLink(d.frontendBaseURL, uid)},
	})
}

func (d *Dispatcher) SendPasswordReset(to mail.Address, link string) {
	d.dispatch(&core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      PasswordResetSubject,
		TemplateName: passwordResetTemplate,
		TemplateData: templateData{Name: to.Name, Link: link},
	})
}
