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

package graph

import "time"

// ChatMessage is the Graph API channel message resource, reduced to the
// fields this tool cares about.  The wire format is preserved, so a message
// can be re-serialised without loss of the captured fields.
type ChatMessage struct {
	ID              string       `json:"id"`
	ReplyToID       string       `json:"replyToId,omitempty"`
	MessageType     string       `json:"messageType,omitempty"`
	Subject         string       `json:"subject,omitempty"`
	CreatedDateTime string       `json:"createdDateTime,omitempty"`
	From            *IdentitySet `json:"from,omitempty"`
	Body            ItemBody     `json:"body"`
	WebURL          string       `json:"webUrl,omitempty"`
}

// IdentitySet identifies the sender.  For messages posted by applications or
// automation, User is nil and Application may be set instead.
type IdentitySet struct {
	User        *Identity `json:"user,omitempty"`
	Application *Identity `json:"application,omitempty"`
}

type Identity struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// ItemBody is the message body.  ContentType is either "text" or "html".
type ItemBody struct {
	ContentType string `json:"contentType,omitempty"`
	Content     string `json:"content,omitempty"`
}

// Sender returns the display name of the message author, or an empty string
// if the author information is missing.
func (m ChatMessage) Sender() string {
	if m.From == nil {
		return ""
	}
	if m.From.User != nil {
		return m.From.User.DisplayName
	}
	if m.From.Application != nil {
		return m.From.Application.DisplayName
	}
	return ""
}

// Datetime parses the message creation timestamp.  Graph returns timestamps
// in RFC3339 with a Z suffix.
func (m ChatMessage) Datetime() (time.Time, error) {
	return time.Parse(time.RFC3339, m.CreatedDateTime)
}

// IsHTML reports whether the message body is HTML.
func (b ItemBody) IsHTML() bool {
	return b.ContentType == "html"
}

// MessagesPage is a single page of the channel messages (or message replies)
// collection.  NextLink is the opaque continuation URL, empty on the last
// page.
type MessagesPage struct {
	Context  string        `json:"@odata.context,omitempty"`
	Count    int           `json:"@odata.count,omitempty"`
	NextLink string        `json:"@odata.nextLink,omitempty"`
	Value    []ChatMessage `json:"value"`
}
