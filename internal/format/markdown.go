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
package format

import (
	"bufio"
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/rusq/teamsdump/types"
)

var _ Formatter = &Markdown{}

const (
	mdTimeFmt = "2006-01-02 15:04:05"

	// placeholders for messages with missing or mangled fields.  A message
	// that fails to render cleanly must still render.
	unknownAuthor = "Unknown"
	unknownTime   = "unknown time"
)

var (
	reBreak = regexp.MustCompile(`(?i)<br\s*/?>`)
	reTag   = regexp.MustCompile(`<[^>]+>`)
)

// Markdown renders threads as human-readable markdown documents.
type Markdown struct {
	opts options
}

func init() {
	converters[CMarkdown] = NewMarkdown
}

func NewMarkdown(opts ...Option) Formatter {
	var settings options
	for _, fn := range opts {
		fn(&settings)
	}
	return &Markdown{opts: settings}
}

// Extension returns the file extension for the formatter.
func (md *Markdown) Extension() string {
	return ".md"
}

// Thread writes the message and its replies, oldest reply first.
func (md *Markdown) Thread(ctx context.Context, w io.Writer, m *types.Message) error {
	buf := bufio.NewWriter(w)
	defer buf.Flush()

	title := strings.TrimSpace(m.Subject)
	if title == "" {
		title = "Thread " + m.ID
	}
	fmt.Fprintf(buf, "# %s\n\n", title)
	fmt.Fprintf(buf, "%s\n\n", byline(m))
	fmt.Fprintf(buf, "---\n\n")
	if body := messageText(m); body != "" {
		fmt.Fprintf(buf, "%s\n", body)
	}

	if len(m.Replies) > 0 {
		// render oldest first regardless of the input order.
		replies := make([]types.Message, len(m.Replies))
		copy(replies, m.Replies)
		types.SortMessages(replies)

		fmt.Fprintf(buf, "\n## Replies\n\n")
		for i := range replies {
			fmt.Fprintf(buf, "%d. %s\n", i+1, byline(&replies[i]))
			if body := messageText(&replies[i]); body != "" {
				fmt.Fprintf(buf, "\n%s\n", indent(body, "   "))
			}
			fmt.Fprintln(buf)
		}
	}

	return buf.Flush()
}

// Conversation writes all threads to one aggregate document.
func (md *Markdown) Conversation(ctx context.Context, w io.Writer, conv *types.Conversation) error {
	buf := bufio.NewWriter(w)
	defer buf.Flush()

	fmt.Fprintf(buf, "# Channel %s\n\n", conv.ChannelID)
	for i := range conv.Messages {
		if err := md.Thread(ctx, buf, &conv.Messages[i]); err != nil {
			return err
		}
		fmt.Fprintf(buf, "\n---\n\n")
	}
	return buf.Flush()
}

// byline returns the "**author** • timestamp" line, substituting the
// placeholders for the fields that cannot be determined.
func byline(m *types.Message) string {
	author := m.Sender()
	if author == "" {
		author = unknownAuthor
	}
	return fmt.Sprintf("**%s** • %s", author, timestamp(m))
}

func timestamp(m *types.Message) string {
	t, err := m.Datetime()
	if err != nil {
		return unknownTime
	}
	return t.UTC().Format(mdTimeFmt) + " UTC"
}

// messageText returns the plain text of the message body.  HTML bodies are
// stripped of the markup, text bodies are passed through as is.
func messageText(m *types.Message) string {
	if m.Body.IsHTML() {
		return StripHTML(m.Body.Content)
	}
	return strings.TrimSpace(m.Body.Content)
}

// StripHTML converts an HTML fragment to plain text: line breaks are
// preserved, the remaining tags are dropped and the entities decoded.
// Stripping plain text is a no-op.
func StripHTML(s string) string {
	s = reBreak.ReplaceAllString(s, "\n")
	s = reTag.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

func indent(s string, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
