package identitysvc

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"

	"github.com/omi-1602/Venz-edu/core"
)

// New returns the identity provider selected by conf.Identity.Provider.
// firebaseApp is only called for the firebase provider.
func New(ctx context.Context, conf *core.Config, docs core.DocumentStore, firebaseApp func() (*firebase.App, error)) (core.IdentityProvider, error) {
	switch conf.Identity.Provider {
	case core.IdentityLocal:
		return NewLocal(conf, docs), nil
	case core.IdentityFirebase:
		app, err := firebaseApp()
		if err != nil {
			return nil, err
		}
		return NewFirebase(ctx, conf, app)
	default:
		return nil, errors.Errorf("unknown identity provider %q", conf.Identity.Provider)
	}
}
