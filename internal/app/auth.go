package app

import (
	"context"
	"fmt"
	"runtime/trace"

	"github.com/rusq/teamsdump/auth"
	"github.com/rusq/teamsdump/internal/cache"
)

// CreateProvider creates the authentication provider for the given
// parameters.  The acquired tokens are cached in an encrypted file in the
// cache directory, so repeat runs do not prompt the user again.
func CreateProvider(ctx context.Context, ap AuthParams) (auth.Provider, error) {
	_, task := trace.NewTask(ctx, "CreateProvider")
	defer task.End()

	storage, err := cache.NewStorage(ap.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise the token cache: %w", err)
	}

	opts := []auth.Option{
		auth.WithStorage(storage),
		auth.WithAuthTimeout(ap.Timeout),
	}
	switch ap.Type {
	case auth.TypeClientSecret:
		return auth.NewClientSecretAuth(ap.ClientID, ap.TenantID, ap.ClientSecret, opts...)
	case auth.TypeDeviceCode:
		return auth.NewDeviceCodeAuth(ap.ClientID, ap.TenantID, opts...)
	case auth.TypeInteractive:
		return auth.NewInteractiveAuth(ap.ClientID, ap.TenantID, opts...)
	}
	return nil, fmt.Errorf("internal error: unsupported auth type: %s", ap.Type)
}
