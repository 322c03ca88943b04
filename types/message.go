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

// Package types contains the types for the teamsdump.
package types

import (
	"sort"

	"github.com/rusq/teamsdump/internal/graph"
)

// Message is the internal representation of a channel message with its
// replies.
type Message struct {
	graph.ChatMessage
	Replies []Message `json:"teamsdump_replies,omitempty"`
}

// IsReply returns true if the message is a reply within a thread.
func (m Message) IsReply() bool {
	return m.ReplyToID != ""
}

// HasReplies returns true if any replies were captured for the message.
func (m Message) HasReplies() bool {
	return len(m.Replies) > 0
}

// SortMessages sorts the messages ascending by the creation timestamp.
// Graph timestamps are RFC3339 in UTC, so the lexicographic order matches
// the chronological one.
func SortMessages(msgs []Message) {
	sort.Slice(msgs, func(i, j int) bool {
		return msgs[i].CreatedDateTime < msgs[j].CreatedDateTime
	})
}

// ConvertMsgs converts a slice of graph.ChatMessage to []types.Message.
func ConvertMsgs(gm []graph.ChatMessage) []Message {
	msgs := make([]Message, len(gm))
	for i := range gm {
		msgs[i].ChatMessage = gm[i]
	}
	return msgs
}
