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

// Package teamsdump exports messages and reply threads from Microsoft Teams
// channels via the Microsoft Graph API.
package teamsdump

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/trace"
	"time"

	"golang.org/x/time/rate"

	"github.com/rusq/teamsdump/auth"
	"github.com/rusq/teamsdump/internal/graph"
	"github.com/rusq/teamsdump/internal/network"
)

//go:generate mockgen -source teamsdump.go -destination clienter_mock_test.go -package teamsdump -mock_names clienter=mockClienter

// Session stores basic session parameters.  Zero value is not usable, must
// be initialised with New.
type Session struct {
	client clienter     // Graph API client
	log    *slog.Logger // logger

	cfg config
}

// clienter is the interface with the functions of graph.Client used by the
// session, with the sole purpose of mocking in tests.
type clienter interface {
	Messages(ctx context.Context, teamID, channelID string, pageSize int) (*graph.MessagesPage, error)
	Replies(ctx context.Context, teamID, channelID, messageID string, pageSize int) (*graph.MessagesPage, error)
	Follow(ctx context.Context, nextLink string) (*graph.MessagesPage, error)
}

// config is the option set for the Session.
type config struct {
	limits       network.Limits
	maxMessages  int           // maximum number of top level messages, 0 - no limit
	maxReplies   int           // maximum number of replies per message, 0 - no limit
	fetchReplies bool          // fetch the reply threads
	replyDelay   time.Duration // pause between per-message reply fetches
	progressFn   ProgressFunc
}

var defConfig = config{
	limits: network.DefLimits,
}

// ProgressFunc is called after each message's replies have been fetched.
type ProgressFunc func(done, total int)

// Option is the signature of the option-setting function.
type Option func(*Session)

// WithLimits sets the API limits to use for the session.  If this option is
// not given, the session runs with network.DefLimits.
func WithLimits(l network.Limits) Option {
	return func(s *Session) {
		if l.Validate() == nil {
			s.cfg.limits = l
		}
	}
}

// WithLogger sets the logger to use for the session.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMessageLimit caps the number of top level messages fetched.  Zero
// means no limit.
func WithMessageLimit(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.cfg.maxMessages = n
		}
	}
}

// WithReplyLimit caps the number of replies fetched per message.  Zero means
// no limit.
func WithReplyLimit(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.cfg.maxReplies = n
		}
	}
}

// WithReplies enables fetching of the reply threads.
func WithReplies(b bool) Option {
	return func(s *Session) {
		s.cfg.fetchReplies = b
	}
}

// WithReplyDelay adds an extra pause between the per-message reply fetches,
// on top of the rate limiter.
func WithReplyDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.cfg.replyDelay = d
		}
	}
}

// WithProgressFunc sets the callback reporting the reply fetch progress.
func WithProgressFunc(fn ProgressFunc) Option {
	return func(s *Session) {
		s.cfg.progressFn = fn
	}
}

// WithClient sets the Graph client to use for the session.  Use it to
// override the client construction, i.e. in tests.
func WithClient(cl clienter) Option {
	return func(s *Session) {
		if cl != nil {
			s.client = cl
		}
	}
}

// New creates a new teamsdump session with the provided options.  The
// provider is validated, but no token is acquired until the first request.
func New(ctx context.Context, prov auth.Provider, opts ...Option) (*Session, error) {
	_, task := trace.NewTask(ctx, "New")
	defer task.End()

	if err := prov.Validate(); err != nil {
		return nil, fmt.Errorf("auth provider validation error: %w", err)
	}

	s := &Session{
		client: graph.New(prov),
		log:    slog.Default(),
		cfg:    defConfig,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.limits.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// limiter returns a new limiter with the session's rate settings.
func (s *Session) limiter() *rate.Limiter {
	return network.NewLimiter(s.cfg.limits.Tier.Boost, s.cfg.limits.Tier.Burst)
}
