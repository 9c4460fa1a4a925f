package core

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	"io/fs"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"

	appfs "github.com/omi-1602/Venz-edu/fs"
)

var (
	templates  tmplCache
	tmplErr    error
	tmplBase   ContextData
	tmplInit   sync.Once
	tmplLogger Logger
)

type (
	tmplCacheEntry struct {
		text *texttmpl.Template
		html *htmltmpl.Template
		err  error // first parse error
	}
	tmplCache map[string]*tmplCacheEntry // {name: entry}

	EmailMessage struct {
		To      []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	// Delivery errors are logged by the service, never returned.
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) getContextData() ContextData {
	data := tmplBase
	data.Data = m.TemplateData
	return data
}

func (m *EmailMessage) execute(write func(*bytes.Buffer) error) (string, error) {
	var buff bytes.Buffer
	if err := write(&buff); err != nil {
		return "", err
	}
	return buff.String(), nil
}

func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}
	tmplInit.Do(func() { parseTemplates(tmplLogger) }) // no-op when ParseEmailTemplates ran first

	if tmplErr != nil {
		return errors.Wrap(tmplErr, "loading email templates")
	}
	entry, ok := templates[m.TemplateName]
	if !ok {
		return errors.Errorf("email template %q not found", m.TemplateName)
	}
	if entry.err != nil {
		return errors.Wrapf(entry.err, "parsing email template %q", m.TemplateName)
	}
	if entry.text == nil && entry.html == nil {
		return errors.Errorf("email template %q has no content", m.TemplateName)
	}
	var err error
	if entry.text != nil && m.BodyStr == "" {
		m.TextContent, err = m.execute(func(b *bytes.Buffer) error { return entry.text.Execute(b, m.getContextData()) })
		if err != nil {
			return errors.Wrap(err, "rendering text template")
		}
	}
	if entry.html != nil {
		m.HTMLContent, err = m.execute(func(b *bytes.Buffer) error { return entry.html.Execute(b, m.getContextData()) })
		if err != nil {
			return errors.Wrap(err, "rendering html template")
		}
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

// ParseEmailTemplates loads the embedded email templates once; call it at startup.
func ParseEmailTemplates(conf *Config, logger Logger) {
	tmplBase = ContextData{AppName: conf.AppName, FrontendBaseURL: conf.FrontendBaseURL}
	tmplLogger = logger
	tmplInit.Do(func() { parseTemplates(logger) })
}

func parseTemplates(logger Logger) {
	templates = make(tmplCache)
	logErr := func(err error) {
		if logger != nil {
			logger.Error(fmt.Sprintf("core.parseTemplates: %v", err), err)
		}
	}

	fps, err := fs.Glob(appfs.FS, path.Join(appfs.EmailTemplatesDir, "*"))
	if err != nil {
		tmplErr = err
		logErr(err)
		return
	}

	for _, fp := range fps {
		fname := path.Base(fp)
		ext := path.Ext(fname)
		if strings.HasPrefix(fname, "_") || !(ext == ".txt" || ext == ".gohtml") {
			continue
		}
		name := strings.TrimSuffix(fname, ext)
		entry, ok := templates[name]
		if !ok {
			entry = new(tmplCacheEntry)
			templates[name] = entry
		}
		base := path.Join(appfs.EmailTemplatesDir, "_base"+ext)
		if ext == ".txt" {
			tmpl, err := texttmpl.ParseFS(appfs.FS, base, fp)
			if err != nil {
				if entry.err == nil {
					entry.err = err
				}
				logErr(err)
				continue
			}
			entry.text = tmpl.Option("missingkey=error")
		} else {
			tmpl, err := htmltmpl.ParseFS(appfs.FS, base, fp)
			if err != nil {
				if entry.err == nil {
					entry.err = err
				}
				logErr(err)
				continue
			}
			entry.html = tmpl.Option("missingkey=error")
		}
	}
}
