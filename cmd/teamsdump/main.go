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

// Command teamsdump dumps messages and reply threads from a Microsoft Teams
// channel using the Microsoft Graph API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rusq/osenv/v2"
	"github.com/rusq/tracer"

	"github.com/rusq/teamsdump/auth"
	"github.com/rusq/teamsdump/internal/app"
	"github.com/rusq/teamsdump/internal/network"
)

const (
	envClientID     = "TEAMS_CLIENT_ID"
	envClientSecret = "TEAMS_CLIENT_SECRET"
	envTenantID     = "TEAMS_TENANT_ID"
	envTeamID       = "TEAMS_TEAM_ID"
	envChannelID    = "TEAMS_CHANNEL_ID"
)

const defAuthTimeout = 5 * time.Minute

var build = "dev"

// secrets defines the names of the supported secret files that we load our
// secrets from.  Inexperienced windows users might have bad experience trying
// to create .env file with the notepad as it will battle for having the
// "txt" extension.  Let it have it.
var secrets = []string{".env", ".env.txt", "secrets.txt"}

// params is the command line parameters
type params struct {
	appCfg app.Params

	authType     string // auth flow name
	apiConfig    string // limits configuration file
	traceFile    string // trace file
	printVersion bool
	verbose      bool
}

func main() {
	loadSecrets(secrets)

	p, err := parseCmdLine(os.Args[1:])
	if err != nil {
		fatal(2, err)
	}
	if p.printVersion {
		fmt.Println(build)
		return
	}
	initLog(p.verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, p); err != nil {
		if errors.Is(err, app.ErrNothingToDo) || errors.Is(err, app.ErrConfigInvalid) {
			fatal(2, err)
		}
		fatal(1, err)
	}
	color.Green("export completed without errors")
}

func fatal(code int, err error) {
	slog.Error("fatal", "error", err)
	os.Exit(code)
}

// run runs the export.
func run(ctx context.Context, p params) error {
	if p.traceFile != "" {
		slog.Info("enabling trace", "filename", p.traceFile)
		trc := tracer.New(p.traceFile)
		if err := trc.Start(); err != nil {
			return err
		}
		defer func() {
			if err := trc.End(); err != nil {
				slog.Warn("failed to write the trace file", "error", err)
			}
		}()
	}

	if p.apiConfig != "" {
		limits, err := app.LoadLimits(p.apiConfig)
		if err != nil {
			return fmt.Errorf("%w: %s", app.ErrConfigInvalid, err)
		}
		p.appCfg.Limits = limits
	}
	if err := p.appCfg.Validate(); err != nil {
		return err
	}

	prov, err := app.CreateProvider(ctx, p.appCfg.Auth)
	if err != nil {
		return err
	}
	return app.Run(ctx, p.appCfg, prov)
}

func initLog(verbose bool) {
	lvl := slog.LevelInfo
	if verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// loadSecrets load secrets from the files in secrets slice.
func loadSecrets(files []string) {
	for _, f := range files {
		godotenv.Load(f)
	}
}

// parseCmdLine parses the command line arguments.
func parseCmdLine(args []string) (params, error) {
	fs := flag.NewFlagSet("teamsdump", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			flag.CommandLine.Output(),
			"Teamsdump %s\n"+
				"Teamsdump dumps messages and reply threads from a Microsoft Teams channel\n"+
				"into a set of JSON or markdown files.\n\n"+
				"Usage:  %s [flags]\n\n",
			build, filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}

	var p params
	fs.StringVar(&p.appCfg.Auth.ClientID, "client-id", osenv.Secret(envClientID, ""), "Azure AD application (client) `ID` (environment: "+envClientID+")")
	fs.StringVar(&p.appCfg.Auth.ClientSecret, "client-secret", osenv.Secret(envClientSecret, ""), "client `secret` for the client_secret flow (environment: "+envClientSecret+")")
	fs.StringVar(&p.appCfg.Auth.TenantID, "tenant", osenv.Value(envTenantID, ""), "Azure AD tenant `ID` (environment: "+envTenantID+")")
	fs.StringVar(&p.authType, "auth", auth.TypeClientSecret.String(), "authentication `flow`, one of: client_secret, device_code, interactive")
	fs.DurationVar(&p.appCfg.Auth.Timeout, "auth-timeout", defAuthTimeout, "time to wait for the user to complete the sign in")
	fs.StringVar(&p.appCfg.Auth.CacheDir, "cache-dir", osenv.Value("CACHE_DIR", ""), "token cache `directory` location")

	fs.StringVar(&p.appCfg.TeamID, "team", osenv.Value(envTeamID, ""), "`ID` of the team (environment: "+envTeamID+")")
	fs.StringVar(&p.appCfg.ChannelID, "channel", osenv.Value(envChannelID, ""), "`ID` of the channel to export (environment: "+envChannelID+")")

	fs.StringVar(&p.appCfg.Output.Base, "base", osenv.Value("BASE_LOC", ""), "a `location` (a directory or a ZIP file) on the local disk to write\nthe export to.  If empty, a timestamped directory is created.")
	fs.Var(&p.appCfg.Output.Format, "format", "output `format`, one of: json, markdown")
	fs.StringVar(&p.appCfg.FilenameTemplate, "ft", osenv.Value("FILENAME_TEMPLATE", ""), "thread file naming template (markdown format)")

	fs.IntVar(&p.appCfg.MaxMessages, "n", osenv.Value("MAX_MESSAGES", 0), "maximum `number` of top level messages to fetch, 0 - no limit")
	fs.IntVar(&p.appCfg.MaxReplies, "nr", osenv.Value("MAX_REPLIES", 0), "maximum `number` of replies to fetch per message, 0 - no limit")
	fs.BoolVar(&p.appCfg.FetchReplies, "replies", osenv.Value("FETCH_REPLIES", false), "fetch the reply thread of every message")
	fs.DurationVar(&p.appCfg.ReplyDelay, "reply-delay", 0, "extra `pause` between the per-message reply fetches")

	fs.StringVar(&p.apiConfig, "api-config", "", "configuration `file` with the API limits overrides")

	// main parameters
	fs.StringVar(&p.traceFile, "trace", os.Getenv("TRACE_FILE"), "trace `file` (optional)")
	fs.BoolVar(&p.printVersion, "V", false, "print version and exit")
	fs.BoolVar(&p.verbose, "v", osenv.Value("DEBUG", false), "verbose messages")

	os.Unsetenv(envClientSecret)

	if err := fs.Parse(args); err != nil {
		return p, err
	}

	var err error
	p.appCfg.Auth.Type, err = auth.ParseType(p.authType)
	if err != nil {
		return p, err
	}
	p.appCfg.Limits = network.DefLimits

	return p, nil
}
