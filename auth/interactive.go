package auth

import (
	"context"
	"errors"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"
)

// InteractiveAuth is the interactive browser flow: it opens the system
// browser and blocks until the local redirect completes or the auth timeout
// elapses.
type InteractiveAuth struct {
	clientID string
	tenantID string
	opts     options
	app      public.Client
}

var _ Provider = (*InteractiveAuth)(nil)

// NewInteractiveAuth returns the provider for the interactive browser flow.
func NewInteractiveAuth(clientID, tenantID string, opt ...Option) (*InteractiveAuth, error) {
	if clientID == "" {
		return nil, &Error{Err: ErrNoClientID}
	}
	if tenantID == "" {
		return nil, &Error{Err: ErrNoTenantID}
	}
	var o options
	o.apply(opt)

	popts := []public.Option{public.WithAuthority(o.authorityURL(tenantID))}
	if er := o.exportReplace(); er != nil {
		popts = append(popts, public.WithCache(er))
	}
	app, err := public.New(clientID, popts...)
	if err != nil {
		return nil, &Error{Err: err}
	}
	return &InteractiveAuth{clientID: clientID, tenantID: tenantID, opts: o, app: app}, nil
}

func (a *InteractiveAuth) Type() Type {
	return TypeInteractive
}

func (a *InteractiveAuth) Validate() error {
	if a.clientID == "" {
		return ErrNoClientID
	}
	if a.tenantID == "" {
		return ErrNoTenantID
	}
	return nil
}

// Token returns the bearer token, running the browser flow only when the
// silent acquisition fails.
func (a *InteractiveAuth) Token(ctx context.Context) (string, error) {
	if token, err := silent(ctx, a.app); err == nil {
		return token, nil
	}

	ctx, cancel := a.opts.withTimeout(ctx)
	defer cancel()

	ar, err := a.app.AcquireTokenInteractive(ctx, delegatedScopes)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &Error{Err: ErrTimeout}
		}
		return "", &Error{Err: err}
	}
	return ar.AccessToken, nil
}
