package emailsvc

import (
	"errors"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/omi-1602/Venz-edu/core"
	logsvc "github.com/omi-1602/Venz-edu/services/logger"
)

type fakeSender struct {
	err  error
	sent []*gomail.Message
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func verifyMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: "A", Address: "a@x.com"}},
		Subject:      "Verify your Venz Edu account",
		TemplateName: "verify_email",
		TemplateData: map[string]string{"Name": "A", "Link": "https://venz-edu-app.web.app/verify?uid=u1"},
	}
}

func TestSMTPService_sendMessage(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Mail.Backend = core.MailSMTP
	conf.Mail.GmailUser = "sender@gmail.com"
	logger := logsvc.NewTestLogger()

	tests := []struct {
		name     string
		sender   *fakeSender
		msg      *core.EmailMessage
		wantSent int
		wantErr  bool
	}{
		{name: "templated", sender: &fakeSender{}, msg: verifyMessage(), wantSent: 1},
		{name: "no recipients", sender: &fakeSender{}, msg: &core.EmailMessage{Subject: "s", BodyStr: "b"}},
		{name: "transport down", sender: &fakeSender{err: errors.New("dial tcp: connection refused")}, msg: verifyMessage(), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSMTPService(conf, logger)
			svc.dialer = tt.sender

			err := svc.sendMessage(tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, tt.sender.sent, tt.wantSent)
			if tt.wantSent > 0 {
				m := tt.sender.sent[0]
				assert.Equal(t, []string{"Verify your Venz Edu account"}, m.GetHeader("Subject"))
				assert.Equal(t, []string{"sender@gmail.com"}, m.GetHeader("From"))
				assert.Equal(t, []string{`"A" <a@x.com>`}, m.GetHeader("To"))
			}
		})
	}
}

func TestConsoleServiceMock(t *testing.T) {
	svc := NewConsoleServiceMock(core.NewTestConfig(), logsvc.NewTestLogger())
	svc.SendMessages(verifyMessage(), &core.EmailMessage{Subject: "nobody", BodyStr: "x"})

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTMLContent, `<a href="https://venz-edu-app.web.app/verify?uid=u1">Verify Email</a>`)
	assert.Contains(t, sent[0].TextContent, "Please verify your email:")
}

func TestSendgridService_prepare(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Mail.Backend = core.MailSendgrid
	svc := NewSendgridService(conf, logsvc.NewTestLogger())

	msg := verifyMessage()
	require.NoError(t, msg.Render())
	m := svc.prepare(*msg)

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "Verify your Venz Edu account", m.Personalizations[0].Subject)
	assert.Equal(t, "a@x.com", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "noreply@venz-edu.local", m.From.Address)
	assert.Len(t, m.Content, 2)
}

func TestNew(t *testing.T) {
	conf := core.NewTestConfig()
	logger := logsvc.NewTestLogger()

	conf.Mail.Backend = core.MailConsole
	assert.IsType(t, &consoleService{}, New(conf, logger))
	conf.Mail.Backend = core.MailSendgrid
	assert.IsType(t, &sendgridService{}, New(conf, logger))
	conf.Mail.Backend = core.MailSMTP
	assert.IsType(t, &smtpService{}, New(conf, logger))
}
