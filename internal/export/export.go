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

// Package export writes the fetched conversation to the target filesystem in
// the requested format.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime/trace"
	"time"

	"github.com/rusq/fsadapter"

	"github.com/rusq/teamsdump/internal/format"
	"github.com/rusq/teamsdump/internal/nametmpl"
	"github.com/rusq/teamsdump/types"
)

const (
	metadataFile = "metadata.json"
	tsLayout     = "20060102_150405"
)

// Export is the instance of the conversation exporter.
type Export struct {
	fs   fsadapter.FS // target filesystem
	log  *slog.Logger
	opts Options
}

// Options are the exporter parameters.
type Options struct {
	Format       format.Type        // output format
	Template     *nametmpl.Template // thread file naming template
	FetchReplies bool               // recorded in the metadata
	AuthType     string             // recorded in the metadata
}

// Metadata describes a completed export run.
type Metadata struct {
	TeamID       string    `json:"team_id"`
	ChannelID    string    `json:"channel_id"`
	ExportedAt   time.Time `json:"exported_at"`
	MessageCount int       `json:"message_count"`
	ReplyCount   int       `json:"reply_count"`
	PagesFetched int       `json:"pages_fetched"`
	FetchReplies bool      `json:"fetch_replies"`
	AuthType     string    `json:"auth_type"`
	ThreadFiles  []string  `json:"thread_files,omitempty"`
}

// Result is the tally of the written files.
type Result struct {
	Files int
	Bytes int64
}

// document is the shape of the aggregate JSON output file.
type document struct {
	Metadata Metadata        `json:"metadata"`
	Messages []types.Message `json:"messages"`
}

// New creates a new exporter over the filesystem fs.
func New(fs fsadapter.FS, opts Options) *Export {
	if opts.Template == nil {
		opts.Template = nametmpl.NewDefault()
	}
	return &Export{fs: fs, log: slog.Default(), opts: opts}
}

// Run writes the conversation to the filesystem and returns the tally of the
// written files.
func (e *Export) Run(ctx context.Context, conv *types.Conversation) (*Result, error) {
	ctx, task := trace.NewTask(ctx, "export.Run")
	defer task.End()

	md := Metadata{
		TeamID:       conv.TeamID,
		ChannelID:    conv.ChannelID,
		ExportedAt:   time.Now().UTC(),
		MessageCount: len(conv.Messages),
		ReplyCount:   conv.ReplyCount(),
		PagesFetched: conv.Pages,
		FetchReplies: e.opts.FetchReplies,
		AuthType:     e.opts.AuthType,
	}

	switch e.opts.Format {
	case format.CMarkdown:
		return e.threads(ctx, conv, md)
	case format.CJSON:
		return e.aggregate(ctx, conv, md)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", e.opts.Format)
	}
}

// aggregate writes the whole conversation with its metadata into a single
// timestamped JSON file.
func (e *Export) aggregate(ctx context.Context, conv *types.Conversation, md Metadata) (*Result, error) {
	name := fmt.Sprintf("messages_%s.json", md.ExportedAt.Format(tsLayout))
	var res Result
	if err := e.writeFile(name, &res, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document{Metadata: md, Messages: conv.Messages})
	}); err != nil {
		return nil, err
	}
	e.log.InfoContext(ctx, "wrote aggregate file", "filename", name, "messages", md.MessageCount)
	return &res, nil
}

// threads writes each top level message with its replies into a separate
// markdown file, and the run metadata into metadata.json.
func (e *Export) threads(ctx context.Context, conv *types.Conversation, md Metadata) (*Result, error) {
	fn, ok := e.opts.Format.FormatFunc()
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s", e.opts.Format)
	}
	cvt := fn()

	var res Result
	for i := range conv.Messages {
		m := &conv.Messages[i]
		name := e.opts.Template.Execute(m) + cvt.Extension()
		if err := e.writeFile(name, &res, func(w io.Writer) error {
			return cvt.Thread(ctx, w, m)
		}); err != nil {
			return nil, err
		}
		md.ThreadFiles = append(md.ThreadFiles, name)
	}

	if err := e.writeFile(metadataFile, &res, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(md)
	}); err != nil {
		return nil, err
	}
	e.log.InfoContext(ctx, "wrote thread files", "threads", len(md.ThreadFiles))
	return &res, nil
}

// writeFile creates the file on the target filesystem, runs fn over it and
// adds the number of the written bytes to the tally.
func (e *Export) writeFile(name string, res *Result, fn func(w io.Writer) error) error {
	f, err := e.fs.Create(name)
	if err != nil {
		return fmt.Errorf("export: failed to create %q: %w", name, err)
	}
	cw := countingWriter{w: f}
	if err := fn(&cw); err != nil {
		f.Close()
		return fmt.Errorf("export: failed to write %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: failed to close %q: %w", name, err)
	}
	res.Files++
	res.Bytes += cw.n
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
