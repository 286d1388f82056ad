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
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abhishekbhakat/airflow-mcp-server/pkg/airflowclient"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/auth"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/hierarchical"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/mcpadapter"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/openapi"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/resources"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/toolset"
)

const serverName = "airflow-mcp-server"

// version is set by build flags during release.
var version = "dev"

// Run resolves environment overrides, fetches and validates the Airflow
// OpenAPI document, builds the toolset, and serves it over the configured
// transport until the process is asked to stop. A non-nil error here is
// always a configuration error (exit code 1); CLI usage errors such as
// mutually exclusive flags are rejected earlier, in paramsFromCommand.
func Run(ctx context.Context, params *CLIParams) error {
	params.resolveEnv()
	if err := params.validate(); err != nil {
		return err
	}
	if err := auth.CheckToken(params.AuthToken, params.JWKSURI); err != nil {
		return err
	}

	client := airflowclient.New(params.BaseURL, params.AuthToken)
	defer client.Close()

	raw, err := fetchSpec(ctx, client)
	if err != nil {
		return toolset.NewUpstreamUnavailableError(params.BaseURL, err)
	}

	doc, err := openapi.LoadDocument(raw)
	if err != nil {
		return toolset.NewSpecInvalidError(err)
	}

	ts := toolset.New(doc, params.AllowMutations, client)

	hooks := &server.Hooks{}
	mcpServer := server.NewMCPServer(serverName, version, server.WithToolCapabilities(true), server.WithHooks(hooks))

	if _, hasDAGCategory := openapi.ExtractCategories(doc)["DAG"]; hasDAGCategory {
		manager := hierarchical.NewManager(mcpServer, ts, doc)
		hooks.AddOnRegisterSession(manager.OnSessionRegistered)
		hooks.AddOnUnregisterSession(manager.OnSessionUnregistered)
	} else {
		registerStaticTools(mcpServer, ts)
	}

	if params.ResourcesDir != "" {
		resources.Register(mcpServer, resources.Discover(params.ResourcesDir))
	}

	return serve(mcpServer, params)
}

// fetchSpec retrieves the Airflow OpenAPI document. Any transport failure
// or non-2xx response is fatal: the server cannot compile a toolset
// without it.
func fetchSpec(ctx context.Context, client *airflowclient.Client) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.BaseURL+"/openapi.json", nil)
	if err != nil {
		return nil, fmt.Errorf("building openapi.json request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching openapi.json: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching openapi.json: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading openapi.json: %w", err)
	}
	return body, nil
}

// registerStaticTools wires every compiled operation directly as a
// globally visible tool - the "static mode" path, used whenever the
// document does not have a category literally named DAG to anchor
// hierarchical navigation around.
func registerStaticTools(mcpServer *server.MCPServer, ts *toolset.Toolset) {
	for _, tool := range ts.ListTools() {
		name := tool.Name
		mcpServer.AddTool(mcpadapter.ToMCPTool(tool), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			result, err := ts.CallTool(ctx, name, req.GetArguments())
			if err != nil {
				return mcpadapter.ErrorResult(err), nil
			}
			return mcpadapter.ToMCPResult(result), nil
		})
	}
	log.Printf("registered %d tools in static mode", len(ts.ListTools()))
}

func serve(mcpServer *server.MCPServer, params *CLIParams) error {
	switch params.Transport {
	case TransportHTTP:
		addr := fmt.Sprintf("%s:%s", params.Host, params.Port)
		log.Printf("starting streamable HTTP MCP server on %s", addr)
		return server.NewStreamableHTTPServer(mcpServer).Start(addr)
	case TransportSSE:
		addr := fmt.Sprintf("%s:%s", params.Host, params.Port)
		log.Printf("starting SSE MCP server on %s", addr)
		return server.NewSSEServer(mcpServer).Start(addr)
	case TransportStdio:
		log.Println("starting stdio MCP server")
		return server.ServeStdio(mcpServer)
	default:
		return fmt.Errorf("unsupported transport type: %s", params.Transport)
	}
}
