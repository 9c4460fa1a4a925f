// Package testutil wires the account stack on an in-memory document store for tests.
package testutil

import (
	"context"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
	"github.com/omi-1602/Venz-edu/core/notification"
	emailsvc "github.com/omi-1602/Venz-edu/services/email"
	identitysvc "github.com/omi-1602/Venz-edu/services/identity"
	dummydb "github.com/omi-1602/Venz-edu/storage/database/dummy"
)

// AccountStack is an account.Service with the collaborators tests inspect.
type AccountStack struct {
	Docs       *dummydb.DB
	Identity   *identitysvc.Local
	MailSvc    *emailsvc.ConsoleServiceMock
	Validate   *validator.Validate
	Translator ut.Translator
	Service    *account.Service
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)
	return validate, translator
}

func NewAccountStack(t *testing.T, conf *core.Config, logger core.Logger) AccountStack {
	docs, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	validate, translator := NewValidator()
	identity := identitysvc.NewLocal(conf, docs)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	notifier := notification.NewDispatcher(conf, mailSvc, logger)

	return AccountStack{
		Docs:       docs,
		Identity:   identity,
		MailSvc:    mailSvc,
		Validate:   validate,
		Translator: translator,
		Service:    account.NewService(docs, identity, notifier, validate, translator, logger),
	}
}

// CreateUser provisions a verified user then applies status, e.g. account.StatusSuspended.
func CreateUser(t *testing.T, svc *account.Service, docs core.DocumentStore, email, pwd, name, role, status string) account.User {
	ctx := context.Background()
	usr, err := svc.Provision(ctx, account.ProvisionRequest{Email: email, Password: pwd, DisplayName: name, Role: role})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if status != "" && status != usr.Status {
		if err = docs.Update(ctx, core.UsersCollection, usr.UID, core.Document{"status": status}); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
		usr.Status = status
	}
	return usr
}
