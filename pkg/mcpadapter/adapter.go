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

// Package mcpadapter is the thin seam between the transport-agnostic
// toolset/openapi types and mark3labs/mcp-go's wire types. Nothing in
// pkg/toolset or pkg/openapi imports mcp-go; everything that needs to
// talk to the MCP library goes through here.
package mcpadapter

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhishekbhakat/airflow-mcp-server/pkg/openapi"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/toolset"
)

// ToMCPTool renders a compiled ToolDescriptor as an mcp.Tool.
func ToMCPTool(tool toolset.ToolDescriptor) mcp.Tool {
	return mcp.Tool{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: tool.InputSchema.ToMap(),
			Required:   tool.InputSchema.Required,
		},
	}
}

// ToMCPToolFromOperation is ToMCPTool for callers that only have the
// backing OperationDescriptor (the Hierarchical Manager's category
// listings, which look tools up by name rather than by ToolDescriptor).
func ToMCPToolFromOperation(op *openapi.OperationDescriptor) mcp.Tool {
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
	return mcp.Tool{
		Name:        op.ToolName,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: op.InputSchema.ToMap(),
			Required:   op.InputSchema.Required,
		},
	}
}

// ToMCPResult renders a dispatched CallResult as an mcp.CallToolResult.
func ToMCPResult(result *toolset.CallResult) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(result.Content))
	for _, part := range result.Content {
		content = append(content, mcp.TextContent{Type: "text", Text: part.Text})
	}
	return &mcp.CallToolResult{
		Content:           content,
		StructuredContent: result.Structured,
		IsError:           result.IsError,
	}
}

// ErrorResult renders a Go error (typically a *toolset.Error) as an MCP
// error content part, never as a protocol-level exception.
func ErrorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}

// TextResult wraps a plain string as a successful single-text-part
// result, used by the Hierarchical Manager's navigation tools.
func TextResult(text string) *mcp.CallToolResult {
	return mcp.NewToolResultText(text)
}
