package teamsdump

// In this file: reply threads fetching.

import (
	"context"
	"fmt"
	"runtime/trace"
	"time"

	"golang.org/x/time/rate"

	"github.com/rusq/teamsdump/internal/graph"
	"github.com/rusq/teamsdump/internal/network"
	"github.com/rusq/teamsdump/types"
)

// populateReplies fetches the reply thread for each message in msgs,
// updating the slice in place, and returns the total count of fetched
// replies.  A failure to fetch one message's replies is logged and leaves
// that message without replies: losing one thread should not abort the whole
// export.
func (s *Session) populateReplies(ctx context.Context, lim *rate.Limiter, teamID, channelID string, msgs []types.Message) int {
	ctx, task := trace.NewTask(ctx, "populateReplies")
	defer task.End()

	total := 0
	for i := range msgs {
		replies, err := s.dumpReplies(ctx, lim, teamID, channelID, msgs[i].ID)
		if err != nil {
			s.log.WarnContext(ctx, "failed to fetch replies, continuing without them",
				"message_id", msgs[i].ID, "error", err)
			msgs[i].Replies = nil
		} else {
			types.SortMessages(replies)
			msgs[i].Replies = replies
			total += len(replies)
		}
		if s.cfg.progressFn != nil {
			s.cfg.progressFn(i+1, len(msgs))
		}
		if s.cfg.replyDelay > 0 && i < len(msgs)-1 {
			if err := sleepCtx(ctx, s.cfg.replyDelay); err != nil {
				return total
			}
		}
	}
	return total
}

// dumpReplies retrieves all replies to the message with messageID, following
// the continuation links, bounded by the per-message reply limit.
func (s *Session) dumpReplies(ctx context.Context, lim *rate.Limiter, teamID, channelID, messageID string) ([]types.Message, error) {
	var (
		replies  []types.Message
		nextLink string
	)
	for {
		var page *graph.MessagesPage
		if err := network.WithRetry(ctx, lim, s.cfg.limits.Retries, func() error {
			var err error
			trace.WithRegion(ctx, "GetRepliesPage", func() {
				if nextLink == "" {
					page, err = s.client.Replies(ctx, teamID, channelID, messageID, s.cfg.limits.Request.Replies)
				} else {
					page, err = s.client.Follow(ctx, nextLink)
				}
			})
			if err != nil {
				return fmt.Errorf("failed to fetch replies for message %s: %w", messageID, err)
			}
			return nil
		}); err != nil {
			return nil, err
		}

		replies = append(replies, types.ConvertMsgs(page.Value)...)

		if s.cfg.maxReplies > 0 && len(replies) >= s.cfg.maxReplies {
			replies = replies[:s.cfg.maxReplies]
			break
		}
		if page.NextLink == "" {
			break
		}
		nextLink = page.NextLink
	}
	return replies, nil
}

// sleepCtx sleeps for the duration d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
