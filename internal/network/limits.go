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

package network

import (
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Limits contains the tunable API limits.  They can be overridden with the
// limits configuration file (see the -api-config flag).
type Limits struct {
	// Retries is the number of attempts on transient server and network
	// errors.  Rate limiting retries are not counted.
	Retries int `toml:"retries" validate:"required,gte=1,lte=100"`
	// Tier is the limiter configuration for the messages endpoints.
	Tier TierLimit `toml:"tier"`
	// Request holds the per-request page sizes.
	Request RequestLimit `toml:"request"`
}

// TierLimit is the rate limiter configuration.
type TierLimit struct {
	// Boost is added to the base requests per minute rate.
	Boost uint `toml:"boost"`
	// Burst is the limiter burst in requests per second.  Default of 1 is
	// safe.
	Burst uint `toml:"burst" validate:"required,gte=1"`
}

// RequestLimit defines the page sizes.  Graph caps $top for channel messages
// at 50.
type RequestLimit struct {
	// Messages is the page size for the channel messages request.
	Messages int `toml:"messages" validate:"required,gte=1,lte=50"`
	// Replies is the page size for the message replies request.
	Replies int `toml:"replies" validate:"required,gte=1,lte=50"`
}

// DefLimits are the default limits.
var DefLimits = Limits{
	Retries: 3,
	Tier: TierLimit{
		Boost: 0,
		Burst: 1,
	},
	Request: RequestLimit{
		Messages: 50,
		Replies:  50,
	},
}

var (
	validate = validator.New()
	// ErrTranslations is the translator for the validation errors.
	ErrTranslations ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	var ok bool
	ErrTranslations, ok = uni.GetTranslator("en")
	if !ok {
		panic("internal error: failed to init translator")
	}
	if err := en_translations.RegisterDefaultTranslations(validate, ErrTranslations); err != nil {
		panic(err)
	}
}

// Validate validates the limits.  The error returned is a
// validator.ValidationErrors that can be translated with ErrTranslations.
func (o *Limits) Validate() error {
	return validate.Struct(o)
}

// Apply overrides the current limits with the values from other, if they
// pass validation.
func (o *Limits) Apply(other Limits) error {
	if err := other.Validate(); err != nil {
		return err
	}
	apply(&o.Retries, other.Retries)
	apply(&o.Tier.Boost, other.Tier.Boost)
	apply(&o.Tier.Burst, other.Tier.Burst)
	apply(&o.Request.Messages, other.Request.Messages)
	apply(&o.Request.Replies, other.Request.Replies)
	return o.Validate()
}

func apply[T comparable](this *T, other T) {
	var zero T
	if other != zero {
		*this = other
	}
}
