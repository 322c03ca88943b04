package teamsdump

// In this file: top level messages fetching.

import (
	"context"
	"errors"
	"fmt"
	"runtime/trace"
	"time"

	"github.com/rusq/teamsdump/internal/graph"
	"github.com/rusq/teamsdump/internal/network"
	"github.com/rusq/teamsdump/types"
)

// DumpChannel fetches all top level messages of the channel, following the
// continuation links until the API runs out of pages or the message limit is
// reached.  If reply fetching is enabled, each message's thread is fetched
// as well.  Messages are returned ascending by creation time.
func (s *Session) DumpChannel(ctx context.Context, teamID, channelID string) (*types.Conversation, error) {
	ctx, task := trace.NewTask(ctx, "DumpChannel")
	defer task.End()

	if teamID == "" || channelID == "" {
		return nil, errors.New("teamID and channelID are required")
	}
	trace.Logf(ctx, "info", "teamID: %q, channelID: %q, maxMessages: %d", teamID, channelID, s.cfg.maxMessages)

	lim := s.limiter()

	var (
		messages   []types.Message
		nextLink   string
		pages      int
		fetchStart = time.Now()
	)
	for {
		var page *graph.MessagesPage
		reqStart := time.Now()
		if err := network.WithRetry(ctx, lim, s.cfg.limits.Retries, func() error {
			var err error
			trace.WithRegion(ctx, "GetMessagesPage", func() {
				if nextLink == "" {
					page, err = s.client.Messages(ctx, teamID, channelID, s.cfg.limits.Request.Messages)
				} else {
					page, err = s.client.Follow(ctx, nextLink)
				}
			})
			return err
		}); err != nil {
			return nil, fmt.Errorf("failed to dump channel %s: %w", channelID, err)
		}
		pages++

		chunk := types.ConvertMsgs(page.Value)
		messages = append(messages, chunk...)

		s.log.InfoContext(ctx, "messages fetched",
			"page", pages,
			"fetched", len(chunk),
			"total", len(messages),
			"took", time.Since(reqStart).Truncate(time.Millisecond),
		)

		if s.cfg.maxMessages > 0 && len(messages) >= s.cfg.maxMessages {
			// the limit may fall mid-page: truncate, don't discard.
			messages = messages[:s.cfg.maxMessages]
			s.log.InfoContext(ctx, "reached the message limit", "limit", s.cfg.maxMessages)
			break
		}
		if page.NextLink == "" {
			break
		}
		nextLink = page.NextLink
	}

	s.log.InfoContext(ctx, "messages fetch complete",
		"total", len(messages),
		"pages", pages,
		"took", time.Since(fetchStart).Truncate(time.Millisecond),
	)

	types.SortMessages(messages)

	if s.cfg.fetchReplies {
		n := s.populateReplies(ctx, lim, teamID, channelID, messages)
		s.log.InfoContext(ctx, "replies fetch complete", "replies", n)
	}

	return &types.Conversation{
		TeamID:    teamID,
		ChannelID: channelID,
		Messages:  messages,
		Pages:     pages,
	}, nil
}
