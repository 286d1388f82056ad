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

package toolset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/abhishekbhakat/airflow-mcp-server/pkg/airflowclient"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/openapi"
)

// ContentPart is one piece of an MCP call result.
type ContentPart struct {
	Type string
	Text string
}

// CallResult is the outcome of a call_tool invocation: either a flat list
// of content parts (text / error fallback), or content plus a structured
// JSON payload when the upstream responded with JSON.
type CallResult struct {
	Content    []ContentPart
	Structured any
	IsError    bool
}

// bodyAllowedMethods are the HTTP methods a request body is ever attached
// to; GET carries no body regardless of what the compiled operation's
// body bucket contains.
var bodyAllowedMethods = map[string]bool{"POST": true, "PUT": true, "PATCH": true, "DELETE": true}

// dispatch renders op + args into a concrete HTTP request, executes it
// against client, and decodes the response per §4.4.
func dispatch(ctx context.Context, client *airflowclient.Client, op *openapi.OperationDescriptor, args map[string]any) (*CallResult, error) {
	if err := validateArgs(op.InputSchema, args); err != nil {
		return nil, err
	}

	pathArgs, queryArgs, bodyArgs := partitionArgs(op.ParameterMap, args)

	renderedPath, err := renderPath(op.PathTemplate, pathArgs)
	if err != nil {
		return nil, err
	}

	fullURL := client.BaseURL + renderedPath
	if q := encodeQuery(op.ParameterMap, queryArgs); q != "" {
		fullURL += "?" + q
	}

	var bodyReader io.Reader
	if raw, ok := bodyArgs["body"].(string); ok && op.ContentType != "application/json" && bodyAllowedMethods[op.HTTPMethod] {
		// A non-JSON body compiles to one opaque "body" string property,
		// which is sent verbatim under the operation's content type.
		bodyReader = strings.NewReader(raw)
	} else if len(bodyArgs) > 0 && bodyAllowedMethods[op.HTTPMethod] {
		wireBody := make(map[string]any, len(bodyArgs))
		for name, value := range bodyArgs {
			wireBody[op.ParameterMap.WireName(name)] = value
		}
		encoded, err := json.Marshal(wireBody)
		if err != nil {
			return nil, newError(InvalidArgument, "encode request body: %v", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, op.HTTPMethod, fullURL, bodyReader)
	if err != nil {
		return nil, newError(UpstreamError, "build request: %v", err)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", op.ContentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, newError(UpstreamTimeout, "request to %s timed out or was cancelled: %v", fullURL, ctxErr)
		}
		var timeoutErr interface{ Timeout() bool }
		if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
			return nil, newError(UpstreamTimeout, "request to %s timed out: %v", fullURL, err)
		}
		return nil, newError(UpstreamError, "request to %s failed: %v", fullURL, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(UpstreamError, "read response body: %v", err)
	}

	result := decodeResponse(resp, payload)
	if resp.StatusCode >= 400 {
		result.IsError = true
	}
	return result, nil
}

func partitionArgs(paramMap openapi.ParameterMap, args map[string]any) (path, query, body map[string]any) {
	path = map[string]any{}
	query = map[string]any{}
	body = map[string]any{}
	for name, value := range args {
		switch {
		case containsName(paramMap.Path, name):
			path[name] = value
		case containsName(paramMap.Query, name):
			query[name] = value
		case containsName(paramMap.Body, name):
			body[name] = value
		}
	}
	return path, query, body
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// renderPath substitutes {name} placeholders in template from pathArgs,
// URL-encoding each value. Any required placeholder left unfilled is an
// InvalidArgument.
func renderPath(template string, pathArgs map[string]any) (string, error) {
	rendered := template
	for name, value := range pathArgs {
		placeholder := "{" + name + "}"
		rendered = strings.ReplaceAll(rendered, placeholder, url.PathEscape(fmt.Sprintf("%v", value)))
	}
	if strings.Contains(rendered, "{") && strings.Contains(rendered, "}") {
		return "", newArgError(template, "unfilled path placeholder in %q", rendered)
	}
	return rendered, nil
}

// encodeQuery builds the query string per Testable Property 4: booleans
// serialize as "true"/"false", numbers as decimal text, arrays as
// repeated values, null values are omitted.
func encodeQuery(paramMap openapi.ParameterMap, queryArgs map[string]any) string {
	values := url.Values{}
	for name, value := range queryArgs {
		if value == nil {
			continue
		}
		wireName := paramMap.WireName(name)
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				values.Add(wireName, serializeScalar(item))
			}
		case bool:
			values.Set(wireName, serializeScalar(v))
		default:
			values.Set(wireName, serializeScalar(v))
		}
	}
	return values.Encode()
}

func serializeScalar(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// decodeResponse turns a raw HTTP response into a CallResult: parsed
// JSON when the content type says so, otherwise a single text part.
func decodeResponse(resp *http.Response, payload []byte) *CallResult {
	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var parsed any
		if err := json.Unmarshal(payload, &parsed); err == nil {
			return &CallResult{Content: []ContentPart{}, Structured: parsed}
		}
	}
	return &CallResult{Content: []ContentPart{{Type: "text", Text: string(payload)}}}
}
