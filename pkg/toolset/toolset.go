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
	"context"
	"log"
	"sort"

	"github.com/abhishekbhakat/airflow-mcp-server/pkg/airflowclient"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/openapi"
)

var allMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

// ToolDescriptor is the user-facing shape of a compiled tool: what
// list_tools returns, without the HTTP-rebuilding detail of its backing
// OperationDescriptor.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema openapi.InputSchema
}

// Toolset holds the compiled tool catalogue for one OpenAPI document. It
// is immutable after construction and safe for concurrent read access.
type Toolset struct {
	operations     map[string]*openapi.OperationDescriptor
	order          []string // stable (tag, tool_name) order
	allowMutations bool
	client         *airflowclient.Client
}

// New compiles every operation in doc and registers the ones the mutation
// policy admits. allowMutations=false keeps only GET operations.
func New(doc *openapi.Document, allowMutations bool, client *airflowclient.Client) *Toolset {
	t := &Toolset{
		operations:     map[string]*openapi.OperationDescriptor{},
		allowMutations: allowMutations,
		client:         client,
	}

	allowed := map[string]bool{"GET": true}
	if allowMutations {
		for _, m := range allMethods {
			allowed[m] = true
		}
	}

	for _, op := range openapi.CompileDocument(doc) {
		if !allowed[op.HTTPMethod] {
			continue
		}
		if existing, ok := t.operations[op.ToolName]; ok {
			log.Printf("tool name collision: %q already registered for %s %s, dropping %s %s",
				op.ToolName, existing.HTTPMethod, existing.PathTemplate, op.HTTPMethod, op.PathTemplate)
			continue
		}
		t.operations[op.ToolName] = op
		t.order = append(t.order, op.ToolName)
	}

	sort.Slice(t.order, func(i, j int) bool {
		oi, oj := t.operations[t.order[i]], t.operations[t.order[j]]
		if oi.Tag != oj.Tag {
			return oi.Tag < oj.Tag
		}
		return oi.ToolName < oj.ToolName
	})

	return t
}

// AllowsMutations reports whether this Toolset admits non-GET operations.
func (t *Toolset) AllowsMutations() bool { return t.allowMutations }

// AllowedMethods returns the HTTP methods this Toolset's mutation policy
// admits, the same set New used to filter the compiled operations. Callers
// that build their own view over the source document - the Hierarchical
// Manager's category index, notably - use this to stay consistent with
// what the Toolset actually exposes.
func (t *Toolset) AllowedMethods() map[string]bool {
	allowed := map[string]bool{"GET": true}
	if t.allowMutations {
		for _, m := range allMethods {
			allowed[m] = true
		}
	}
	return allowed
}

// ListTools returns every registered tool in stable (tag, tool_name)
// order.
func (t *Toolset) ListTools() []ToolDescriptor {
	out := make([]ToolDescriptor, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, describeTool(t.operations[name]))
	}
	return out
}

// GetTool resolves name to its descriptor and backing operation.
func (t *Toolset) GetTool(name string) (*ToolDescriptor, *openapi.OperationDescriptor, error) {
	op, ok := t.operations[name]
	if !ok {
		return nil, nil, newError(NotFound, "tool %q not found", name)
	}
	desc := describeTool(op)
	return &desc, op, nil
}

// Operation exposes the backing OperationDescriptor for name, used by the
// Hierarchical Manager to build per-category tool lists without going
// through the MCP-facing ToolDescriptor shape.
func (t *Toolset) Operation(name string) (*openapi.OperationDescriptor, bool) {
	op, ok := t.operations[name]
	return op, ok
}

// CallTool validates args, dispatches the HTTP request for name, and
// returns its decoded result. Unknown names (including ones a read-only
// Toolset dropped at construction) fail with NotFound, never by falling
// through to the upstream.
func (t *Toolset) CallTool(ctx context.Context, name string, args map[string]any) (*CallResult, error) {
	_, op, err := t.GetTool(name)
	if err != nil {
		return nil, err
	}
	return dispatch(ctx, t.client, op, args)
}

func describeTool(op *openapi.OperationDescriptor) ToolDescriptor {
	description := op.Summary
	if description == "" {
		description = op.Description
	}
	if description == "" {
		description = op.ToolName
	}
	if op.Samples != "" {
		description += "\n\n" + op.Samples
	}
	return ToolDescriptor{Name: op.ToolName, Description: description, InputSchema: op.InputSchema}
}
