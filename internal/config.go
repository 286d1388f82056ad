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
	"fmt"
	"os"
)

// TransportType selects how the MCP server is exposed.
type TransportType string

const (
	TransportStdio TransportType = "stdio"
	TransportHTTP  TransportType = "http"
	TransportSSE   TransportType = "sse"
)

// CLIParams holds the fully-resolved configuration for one server run,
// after environment variables have been applied over flag defaults.
type CLIParams struct {
	BaseURL        string
	AuthToken      string
	JWKSURI        string
	AllowMutations bool
	Transport      TransportType
	Host           string
	Port           string
	Verbosity      int
	ResourcesDir   string
}

// resolveEnv applies AIRFLOW_BASE_URL / AUTH_TOKEN over flag-provided
// values, per the Open Question (a) resolution: environment always wins.
func (p *CLIParams) resolveEnv() {
	if v := os.Getenv("AIRFLOW_BASE_URL"); v != "" {
		p.BaseURL = v
	}
	if v := os.Getenv("AUTH_TOKEN"); v != "" {
		p.AuthToken = v
	}
}

// validate checks the parameters that can only be checked after flags and
// environment have both been applied; it returns a configuration error
// (exit code 1), not a usage error (mutually exclusive flags are rejected
// with exit code 2 in paramsFromCommand). Per the Open Question (a) resolution,
// both base_url and auth are mandatory: a server with no credentials to
// forward would fail on its first call anyway, so fail fast instead.
func (p *CLIParams) validate() error {
	if p.BaseURL == "" {
		return fmt.Errorf("a base URL is required: pass --base-url or set AIRFLOW_BASE_URL")
	}
	if p.AuthToken == "" {
		return fmt.Errorf("an auth token is required: pass --auth-token or set AUTH_TOKEN")
	}
	switch p.Transport {
	case TransportStdio, TransportHTTP, TransportSSE:
	default:
		return fmt.Errorf("unsupported transport %q", p.Transport)
	}
	return nil
}
