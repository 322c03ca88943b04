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

package app

import (
	"context"
	"log/slog"
	"os"
	"runtime/trace"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rusq/fsadapter"
	"github.com/schollz/progressbar/v3"

	"github.com/rusq/teamsdump"
	"github.com/rusq/teamsdump/auth"
	"github.com/rusq/teamsdump/internal/export"
	"github.com/rusq/teamsdump/types"
)

// dirLayout is the timestamp format of the generated run directory name.
const dirLayout = "20060102_150405"

// Run executes the export with the given parameters.  cfg must have been
// validated.
func Run(ctx context.Context, cfg Params, prov auth.Provider) error {
	ctx, task := trace.NewTask(ctx, "Run")
	defer task.End()

	start := time.Now()

	base := cfg.Output.Base
	if base == "" {
		base = "teamsdump_" + start.Format(dirLayout)
	}
	fsa, err := fsadapter.New(base)
	if err != nil {
		return err
	}
	defer fsa.Close()

	conv, err := dump(ctx, cfg, prov)
	if err != nil {
		return err
	}

	tmpl, err := cfg.compileTemplate()
	if err != nil {
		return err
	}
	exp := export.New(fsa, export.Options{
		Format:       cfg.Output.Format,
		Template:     tmpl,
		FetchReplies: cfg.FetchReplies,
		AuthType:     prov.Type().String(),
	})
	res, err := exp.Run(ctx, conv)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "export completed",
		"location", base,
		"files", res.Files,
		"size", humanize.Bytes(uint64(res.Bytes)),
		"took", time.Since(start).Truncate(time.Millisecond),
	)
	return nil
}

// dump fetches the channel messages, showing the reply fetch progress on the
// terminal.
func dump(ctx context.Context, cfg Params, prov auth.Provider) (*types.Conversation, error) {
	opts := []teamsdump.Option{
		teamsdump.WithLimits(cfg.Limits),
		teamsdump.WithMessageLimit(cfg.MaxMessages),
		teamsdump.WithReplyLimit(cfg.MaxReplies),
		teamsdump.WithReplies(cfg.FetchReplies),
		teamsdump.WithReplyDelay(cfg.ReplyDelay),
	}

	var bar *progressbar.ProgressBar
	if cfg.FetchReplies && isTerminal(os.Stderr) {
		opts = append(opts, teamsdump.WithProgressFunc(func(done, total int) {
			if bar == nil {
				bar = newProgressBar(total)
			}
			bar.Set(done)
		}))
	}
	defer func() {
		if bar != nil {
			bar.Finish()
		}
	}()

	sess, err := teamsdump.New(ctx, prov, opts...)
	if err != nil {
		return nil, err
	}
	return sess.DumpChannel(ctx, cfg.TeamID, cfg.ChannelID)
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("fetching replies"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
