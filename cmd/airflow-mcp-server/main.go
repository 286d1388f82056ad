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

package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	internal "github.com/abhishekbhakat/airflow-mcp-server/internal"
)

// version is set by build flags during release.
var version = "dev"

func main() {
	app := &cli.Command{
		Name:     "airflow-mcp-server",
		Usage:    "Expose an Airflow deployment's REST API as MCP tools.",
		Version:  version,
		Commands: internal.GetCommands(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Print(err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor distinguishes a CLI usage error (a cli.ExitCoder, such as
// the exit-code-2 error returned for mutually exclusive flags) from every
// other failure, which is always a configuration error per spec: 2 vs 1.
func exitCodeFor(err error) int {
	var coder cli.ExitCoder
	if ok := asExitCoder(err, &coder); ok {
		return coder.ExitCode()
	}
	return 1
}

func asExitCoder(err error, target *cli.ExitCoder) bool {
	coder, ok := err.(cli.ExitCoder)
	if !ok {
		return false
	}
	*target = coder
	return true
}
