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

// Package format provides formatting functions for different output format
// types.
package format

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rusq/teamsdump/types"
)

// Type is the converter type.
//
//go:generate stringer -type Type -trimprefix C format.go
type Type int

const (
	CUnknown  Type = iota // Unknown converter type
	CJSON                 // CJSON is JSON format converter
	CMarkdown             // CMarkdown is the markdown converter
)

var Descriptions = map[Type]string{
	CJSON:     "JSON format",
	CMarkdown: "Markdown format",
}

// Formatter is a converter interface that each formatter must implement.
type Formatter interface {
	// Conversation writes the whole conversation to the writer as one
	// aggregate document.
	Conversation(ctx context.Context, w io.Writer, conv *types.Conversation) error
	// Thread writes a single top level message with its replies to the
	// writer.
	Thread(ctx context.Context, w io.Writer, m *types.Message) error
	// Extension returns the file extension for the formatter.
	Extension() string
}

type options struct {
	jsonOptions
}

// Option is the converter option.
type Option func(*options)

var converters = make(map[Type]func(opts ...Option) Formatter)

func (e *Type) Set(v string) error {
	v = strings.ToLower(v)
	for i := 0; i < len(_Type_index)-1; i++ {
		if strings.ToLower(_Type_name[_Type_index[i]:_Type_index[i+1]]) == v {
			*e = Type(i)
			return nil
		}
	}
	return fmt.Errorf("unknown converter: %s", v)
}

func (e *Type) FormatFunc() (func(opts ...Option) Formatter, bool) {
	fn, ok := converters[*e]
	return fn, ok
}
