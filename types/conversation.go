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

package types

// Conversation keeps the dump of one channel.
type Conversation struct {
	// TeamID is the ID of the team the channel belongs to.
	TeamID string `json:"team_id"`
	// ChannelID is the channel ID.
	ChannelID string `json:"channel_id"`
	// Messages is the slice of top level messages, ascending by creation
	// time.  Replies, if fetched, are nested within each message.
	Messages []Message `json:"messages"`
	// Pages is the number of pages consulted to fetch Messages.  It is not
	// part of the conversation data, the export metadata carries it.
	Pages int `json:"-"`
}

func (c Conversation) String() string {
	return c.TeamID + "-" + c.ChannelID
}

// ReplyCount returns the total number of captured replies across all
// messages.
func (c Conversation) ReplyCount() int {
	n := 0
	for i := range c.Messages {
		n += len(c.Messages[i].Replies)
	}
	return n
}
