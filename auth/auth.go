// Package auth provides the Azure AD authentication providers for the
// Microsoft Graph API.  Three interchangeable flows are supported: client
// secret (application permissions), device code and interactive browser
// (both delegated).  All providers attempt silent acquisition from the token
// cache first and only fall through to the interactive part of the flow on a
// cache miss or expiry.
package auth

import (
	"context"
	"errors"
	"time"
)

// Type is the auth type.
type Type uint8

// All supported auth types.
const (
	TypeInvalid Type = iota
	TypeClientSecret
	TypeDeviceCode
	TypeInteractive
)

var typeNames = map[Type]string{
	TypeInvalid:      "invalid",
	TypeClientSecret: "client_secret",
	TypeDeviceCode:   "device_code",
	TypeInteractive:  "interactive",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "invalid"
}

// ParseType returns the Type for its string representation.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s && t != TypeInvalid {
			return t, nil
		}
	}
	return TypeInvalid, errors.New("unknown auth type: " + s)
}

// Provider is the authentication provider.
type Provider interface {
	// Type returns the auth type.
	Type() Type
	// Validate should return an error if the provider is misconfigured.
	Validate() error
	// Token returns a bearer token for the Graph API.  Implementations must
	// try the silent cache lookup first and run the interactive flow only
	// when it fails.
	Token(ctx context.Context) (string, error)
}

// Storage persists the serialised token cache between the runs.  The most
// recent successful token state wins, there is no merging.
type Storage interface {
	// Load returns the stored cache blob.  A missing cache is an error, the
	// caller treats any error as a cache miss.
	Load() ([]byte, error)
	// Save overwrites the stored cache blob.
	Save(data []byte) error
}

const (
	// defAuthTimeout bounds the wait for the user to complete the device
	// code or interactive sign in.
	defAuthTimeout = 5 * time.Minute

	defAuthorityBase = "https://login.microsoftonline.com/"
)

// default scopes for application and delegated access.
var (
	appScopes       = []string{"https://graph.microsoft.com/.default"}
	delegatedScopes = []string{"https://graph.microsoft.com/ChannelMessage.Read.All"}
)

type options struct {
	storage     Storage
	timeout     time.Duration
	authority   string
	openBrowser func(url string) error
}

func (o *options) apply(opt []Option) {
	for _, fn := range opt {
		fn(o)
	}
}

// Option is the signature of the provider option-setting function.
type Option func(*options)

// WithStorage sets the token cache storage.  If not given, the token cache
// lives in memory and each run starts cold.
func WithStorage(s Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithAuthTimeout sets the maximum time to wait for the user to complete the
// sign in.
func WithAuthTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithAuthority overrides the authority host, i.e. for sovereign clouds.
func WithAuthority(url string) Option {
	return func(o *options) {
		if url != "" {
			o.authority = url
		}
	}
}

// WithBrowserOpener sets the function used to open the verification URL in
// the browser.  Set to nil to disable opening the browser.
func WithBrowserOpener(fn func(url string) error) Option {
	return func(o *options) {
		o.openBrowser = fn
	}
}

func (o options) authorityURL(tenantID string) string {
	base := o.authority
	if base == "" {
		base = defAuthorityBase
	}
	return base + tenantID
}

// withTimeout wraps ctx with the configured auth timeout.
func (o options) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	d := o.timeout
	if d == 0 {
		d = defAuthTimeout
	}
	return context.WithTimeout(ctx, d)
}
