package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"
	"github.com/pkg/browser"
)

// DeviceCodeAuth is the device code flow: the user is shown a short code and
// a verification URL and completes the sign in in any browser, possibly on
// another device.
type DeviceCodeAuth struct {
	clientID string
	tenantID string
	opts     options
	app      public.Client

	// Output is where the user code message is printed.  Defaults to
	// os.Stderr.
	Output io.Writer
}

var _ Provider = (*DeviceCodeAuth)(nil)

// NewDeviceCodeAuth returns the provider for the device code flow.
func NewDeviceCodeAuth(clientID, tenantID string, opt ...Option) (*DeviceCodeAuth, error) {
	if clientID == "" {
		return nil, &Error{Err: ErrNoClientID}
	}
	if tenantID == "" {
		return nil, &Error{Err: ErrNoTenantID}
	}
	o := options{openBrowser: browser.OpenURL}
	o.apply(opt)

	popts := []public.Option{public.WithAuthority(o.authorityURL(tenantID))}
	if er := o.exportReplace(); er != nil {
		popts = append(popts, public.WithCache(er))
	}
	app, err := public.New(clientID, popts...)
	if err != nil {
		return nil, &Error{Err: err}
	}
	return &DeviceCodeAuth{clientID: clientID, tenantID: tenantID, opts: o, app: app, Output: os.Stderr}, nil
}

func (a *DeviceCodeAuth) Type() Type {
	return TypeDeviceCode
}

func (a *DeviceCodeAuth) Validate() error {
	if a.clientID == "" {
		return ErrNoClientID
	}
	if a.tenantID == "" {
		return ErrNoTenantID
	}
	return nil
}

// Token returns the bearer token.  If a cached account can be refreshed
// silently, no code is displayed.  Otherwise it prints the user code with
// the verification URL, opens the browser, and polls until the user signs in
// or the auth timeout elapses.
func (a *DeviceCodeAuth) Token(ctx context.Context) (string, error) {
	if token, err := silent(ctx, a.app); err == nil {
		return token, nil
	}

	ctx, cancel := a.opts.withTimeout(ctx)
	defer cancel()

	dc, err := a.app.AcquireTokenByDeviceCode(ctx, delegatedScopes)
	if err != nil {
		return "", &Error{Err: err}
	}
	fmt.Fprintln(a.Output, dc.Result.Message)
	if a.opts.openBrowser != nil {
		if err := a.opts.openBrowser(dc.Result.VerificationURL); err != nil {
			slog.DebugContext(ctx, "failed to open the browser", "error", err)
		}
	}
	ar, err := dc.AuthenticationResult(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &Error{Err: ErrTimeout}
		}
		return "", &Error{Err: err}
	}
	return ar.AccessToken, nil
}

// silent attempts the silent acquisition for the first cached account.
func silent(ctx context.Context, app public.Client) (string, error) {
	accounts, err := app.Accounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", errors.New("no cached accounts")
	}
	ar, err := app.AcquireTokenSilent(ctx, delegatedScopes, public.WithSilentAccount(accounts[0]))
	if err != nil {
		return "", err
	}
	return ar.AccessToken, nil
}
