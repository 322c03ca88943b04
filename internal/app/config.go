// Copyright (c) 2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package app assembles the command line parameters into an export run.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/rusq/teamsdump/auth"
	"github.com/rusq/teamsdump/internal/format"
	"github.com/rusq/teamsdump/internal/nametmpl"
	"github.com/rusq/teamsdump/internal/network"
)

// defTenant is the multi-tenant authority used by the delegated flows when
// no tenant is given.
const defTenant = "organizations"

// Params is the full set of parameters for the export run.
type Params struct {
	Auth AuthParams

	TeamID    string // team to export from
	ChannelID string // channel to export

	Output Output

	Limits       network.Limits
	MaxMessages  int // 0 - no limit
	MaxReplies   int // 0 - no limit
	FetchReplies bool
	ReplyDelay   time.Duration

	FilenameTemplate string
}

// AuthParams are the Azure AD application parameters.
type AuthParams struct {
	Type         auth.Type
	ClientID     string
	TenantID     string
	ClientSecret string
	Timeout      time.Duration
	CacheDir     string // token cache location, empty for current directory
}

// Output defines where and how the export is written.
type Output struct {
	Base   string      // base directory or zip file
	Format format.Type // output format
}

var ErrNothingToDo = errors.New("no team and channel specified")

// Validate checks if the parameters have valid values.  It is called before
// any network activity, so that misconfiguration is reported immediately.
func (p *Params) Validate() error {
	if p.TeamID == "" || p.ChannelID == "" {
		return ErrNothingToDo
	}

	if p.Output.Format == format.CUnknown {
		p.Output.Format = format.CJSON
	}
	if _, ok := p.Output.Format.FormatFunc(); !ok {
		return fmt.Errorf("invalid output format: %s", p.Output.Format)
	}

	if p.FilenameTemplate == "" {
		p.FilenameTemplate = nametmpl.Default
	}
	if _, err := nametmpl.New(p.FilenameTemplate); err != nil {
		return fmt.Errorf("invalid filename template: %w", err)
	}

	if err := p.Limits.Validate(); err != nil {
		return fmt.Errorf("invalid API limits: %w", err)
	}

	if p.MaxMessages < 0 || p.MaxReplies < 0 || p.ReplyDelay < 0 {
		return errors.New("limits and delays must not be negative")
	}

	return p.Auth.validate()
}

func (ap *AuthParams) validate() error {
	if ap.ClientID == "" {
		return auth.ErrNoClientID
	}
	switch ap.Type {
	case auth.TypeClientSecret:
		if ap.TenantID == "" {
			return auth.ErrNoTenantID
		}
		if ap.ClientSecret == "" {
			return auth.ErrNoSecret
		}
	case auth.TypeDeviceCode, auth.TypeInteractive:
		if ap.TenantID == "" {
			ap.TenantID = defTenant
		}
	default:
		return fmt.Errorf("unknown authentication type: %s", ap.Type)
	}
	return nil
}

// compileTemplate returns the compiled thread filename template.  Validate
// must have been called first.
func (p *Params) compileTemplate() (*nametmpl.Template, error) {
	return nametmpl.New(p.FilenameTemplate)
}
