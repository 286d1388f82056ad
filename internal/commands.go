// Copyright 2025 MakeMCP Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"log"

	"github.com/urfave/cli/v3"
)

// GetCommands returns the root server command. There is a single upstream
// kind (Airflow's own OpenAPI document), so unlike the teacher's
// multi-source registry this has no per-source subcommands to discover.
func GetCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "serve",
			Usage: "Start the Airflow MCP server.",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "safe", Usage: "Expose read-only (GET) tools only."},
				&cli.BoolFlag{Name: "unsafe", Usage: "Expose mutating tools as well (default)."},
				&cli.StringFlag{Name: "base-url", Usage: "Airflow base URL, e.g. http://localhost:8080/api/v2. Overridden by AIRFLOW_BASE_URL."},
				&cli.StringFlag{Name: "auth-token", Usage: "Bearer token for the Airflow API. Overridden by AUTH_TOKEN."},
				&cli.StringFlag{Name: "jwks-uri", Usage: "Optional JWKS endpoint to verify auth-token's signature against, if Airflow is configured for OIDC."},
				&cli.BoolFlag{Name: "http", Usage: "Serve over streamable HTTP instead of stdio."},
				&cli.BoolFlag{Name: "sse", Usage: "Serve over SSE instead of stdio."},
				&cli.StringFlag{Name: "host", Value: "127.0.0.1", Usage: "Host to bind when --http or --sse is set."},
				&cli.StringFlag{Name: "port", Value: "8080", Usage: "Port to bind when --http or --sse is set."},
				&cli.StringFlag{Name: "resources-dir", Value: "./resources", Usage: "Directory of markdown files exposed as knowledge resources."},
				&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Increase logging verbosity; repeat for debug output."},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				params, err := paramsFromCommand(cmd)
				if err != nil {
					return err
				}
				return Run(ctx, params)
			},
		},
	}
}

func paramsFromCommand(cmd *cli.Command) (*CLIParams, error) {
	if cmd.Bool("safe") && cmd.Bool("unsafe") {
		return nil, cli.Exit("--safe and --unsafe are mutually exclusive", 2)
	}
	if cmd.Bool("http") && cmd.Bool("sse") {
		return nil, cli.Exit("--http and --sse are mutually exclusive", 2)
	}

	transport := TransportStdio
	switch {
	case cmd.Bool("http"):
		transport = TransportHTTP
	case cmd.Bool("sse"):
		transport = TransportSSE
	}

	verbosity := cmd.Count("verbose")
	configureLogVerbosity(verbosity)

	return &CLIParams{
		BaseURL:        cmd.String("base-url"),
		AuthToken:      cmd.String("auth-token"),
		JWKSURI:        cmd.String("jwks-uri"),
		AllowMutations: !cmd.Bool("safe"),
		Transport:      transport,
		Host:           cmd.String("host"),
		Port:           cmd.String("port"),
		Verbosity:      verbosity,
		ResourcesDir:   cmd.String("resources-dir"),
	}, nil
}

// configureLogVerbosity mirrors the "-v, -vv" convention: 1 → info (the
// log package's default, left as-is), 2+ → debug (include file:line).
func configureLogVerbosity(level int) {
	if level >= 2 {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}
