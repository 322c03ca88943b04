// Package nametmpl contains the thread file naming template logic.
package nametmpl

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/rusq/teamsdump/internal/graph"
	"github.com/rusq/teamsdump/types"
)

const filenameTmplName = "nametmpl"

// Default is the default thread file naming template.
const Default = `{{.ID}}`

// let's define some markers
const (
	mNotOK     = "$$ERROR$$"   // not allowed at all
	mOK        = "$$OK$$"      // required
	mPartialOK = "$$PARTIAL$$" // partial (only goes well with OK)
)

// marking all the fields we want with OK, all the rest (the ones we DO NOT
// WANT) with NotOK.
var tc = types.Message{ChatMessage: graph.ChatMessage{
	ID:              mOK,
	Subject:         mPartialOK,
	CreatedDateTime: mPartialOK,
	ReplyToID:       mNotOK,
	WebURL:          mNotOK,
	Body:            graph.ItemBody{Content: mNotOK},
}}

type Template struct {
	t *template.Template
}

// New returns the template from a string.
func New(t string) (*Template, error) {
	tmpl, err := compile(t)
	if err != nil {
		return nil, err
	}
	return &Template{tmpl}, nil
}

// NewDefault returns the default template.
func NewDefault() *Template {
	t, err := New(Default)
	if err != nil {
		panic(err)
	}
	return t
}

// compile checks the template for validness and compiles it returning the
// template and an error if any.
func compile(t string) (*template.Template, error) {
	tmpl, err := template.New(filenameTmplName).Parse(t)
	if err != nil {
		return nil, err
	}
	// render the template against the marker message and check for OK/NotOK
	// values in the output.
	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, filenameTmplName, tc); err != nil {
		return nil, err
	}
	if strings.Contains(buf.String(), mNotOK) || len(buf.String()) == 0 {
		return nil, fmt.Errorf("invalid fields in the template: %q", t)
	}
	if !strings.Contains(buf.String(), mOK) {
		// must contain at least one OK
		return nil, fmt.Errorf("this does not resolve to anything useful: %q", t)
	}
	return tmpl, nil
}

// Execute executes the template for the message and returns the result.  It
// panics if the template cannot be executed, but please note that the
// template is checked for validity at compile time.
func (t *Template) Execute(m *types.Message) string {
	var buf strings.Builder
	if err := t.t.ExecuteTemplate(&buf, filenameTmplName, m); err != nil {
		panic(err)
	}
	return buf.String()
}
