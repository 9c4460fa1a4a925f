// Package emailsvc holds the core.EmailService implementations.
package emailsvc

import "github.com/omi-1602/Venz-edu/core"

// New returns the mail service selected by conf.Mail.Backend.
func New(conf *core.Config, logger core.Logger) core.EmailService {
	switch conf.Mail.Backend {
	case core.MailConsole:
		return NewConsoleService(conf, logger)
	case core.MailSendgrid:
		return NewSendgridService(conf, logger)
	default:
		return NewSMTPService(conf, logger)
	}
}
