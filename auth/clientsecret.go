package auth

import (
	"context"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/confidential"
)

// ClientSecretAuth is the client credentials flow: it exchanges the
// application secret for a token without any user interaction.  Requires the
// application permission ChannelMessage.Read.All granted by an admin.
type ClientSecretAuth struct {
	clientID string
	tenantID string
	app      confidential.Client
}

var _ Provider = (*ClientSecretAuth)(nil)

// NewClientSecretAuth returns the provider for the client credentials flow.
func NewClientSecretAuth(clientID, tenantID, secret string, opt ...Option) (*ClientSecretAuth, error) {
	if clientID == "" {
		return nil, &Error{Err: ErrNoClientID}
	}
	if tenantID == "" {
		return nil, &Error{Err: ErrNoTenantID}
	}
	if secret == "" {
		return nil, &Error{Err: ErrNoSecret}
	}
	var o options
	o.apply(opt)

	cred, err := confidential.NewCredFromSecret(secret)
	if err != nil {
		return nil, &Error{Err: err}
	}
	copts := []confidential.Option{}
	if er := o.exportReplace(); er != nil {
		copts = append(copts, confidential.WithCache(er))
	}
	app, err := confidential.New(o.authorityURL(tenantID), clientID, cred, copts...)
	if err != nil {
		return nil, &Error{Err: err}
	}
	return &ClientSecretAuth{clientID: clientID, tenantID: tenantID, app: app}, nil
}

func (a *ClientSecretAuth) Type() Type {
	return TypeClientSecret
}

func (a *ClientSecretAuth) Validate() error {
	if a.clientID == "" {
		return ErrNoClientID
	}
	if a.tenantID == "" {
		return ErrNoTenantID
	}
	return nil
}

// Token returns the bearer token, acquiring it from the cache when one is
// still valid.  Invalid credentials fail immediately, there is nothing to
// wait for.
func (a *ClientSecretAuth) Token(ctx context.Context) (string, error) {
	if ar, err := a.app.AcquireTokenSilent(ctx, appScopes); err == nil {
		return ar.AccessToken, nil
	}
	ar, err := a.app.AcquireTokenByCredential(ctx, appScopes)
	if err != nil {
		return "", &Error{Err: err}
	}
	return ar.AccessToken, nil
}
