package emailsvc

import (
	"fmt"
	"net/mail"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/omi-1602/Venz-edu/core"
)

// mailSender is the part of *gomail.Dialer used to deliver messages.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	dialer mailSender
	from   mail.Address
	logger core.Logger
}

var _ core.EmailService = (*smtpService)(nil)

// NewSMTPService sends through an authenticated SMTP relay (Gmail by default).
func NewSMTPService(conf *core.Config, logger core.Logger) *smtpService {
	return &smtpService{
		dialer: gomail.NewDialer(conf.Mail.SMTPHost, conf.Mail.SMTPPort, conf.Mail.GmailUser, conf.Mail.GmailPassword),
		from:   conf.Mail.DefaultFrom(),
		logger: logger,
	}
}

func (svc *smtpService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := svc.sendMessage(msg); err != nil {
				svc.logger.Error(fmt.Sprintf("sending email: %v", err), err)
			}
		}()
	}
}

func (svc *smtpService) sendMessage(msg *core.EmailMessage) error {
	if err := msg.Render(); err != nil {
		return errors.Wrap(err, "rendering email")
	}
	if !(msg.HasRecipients() && msg.HasContent()) {
		return nil
	}
	return errors.Wrap(svc.dialer.DialAndSend(svc.prepare(*msg)), "dialing smtp")
}

func (svc *smtpService) prepare(msg core.EmailMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(svc.from.Address, svc.from.Name))
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, m.FormatAddress(addr.Address, addr.Name))
	}
	m.SetHeader("To", to...)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextContent != "" && msg.HTMLContent != "":
		m.SetBody("text/plain", msg.TextContent)
		m.AddAlternative("text/html", msg.HTMLContent)
	case msg.HTMLContent != "":
		m.SetBody("text/html", msg.HTMLContent)
	default:
		m.SetBody("text/plain", msg.TextContent)
	}
	return m
}
