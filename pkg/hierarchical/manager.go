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

// Package hierarchical keeps the advertised tool list shallow: four
// always-visible navigation tools plus, once a category is selected, the
// operation tools that category contains.
package hierarchical

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abhishekbhakat/airflow-mcp-server/pkg/mcpadapter"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/openapi"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/toolset"
)

const defaultCategoryName = "DAG"

// Manager owns the per-session selected-category state and the four
// navigation tools; it holds non-owning references to the Toolset and
// the category index built from the same document.
type Manager struct {
	toolset         *toolset.Toolset
	mcpServer       *server.MCPServer
	categoryRoutes  map[string][]openapi.Route
	categoryIndex   map[string][]string // category -> sorted tool names
	defaultCategory string
	sessions        *sessionStore
}

// NewManager builds the category index from doc, registers the four
// navigation tools on mcpServer, and returns a Manager ready to be wired
// into the server's session lifecycle hooks.
func NewManager(mcpServer *server.MCPServer, ts *toolset.Toolset, doc *openapi.Document) *Manager {
	allowed := ts.AllowedMethods()
	routes := make(map[string][]openapi.Route)
	index := make(map[string][]string)
	for category, categoryRoutes := range openapi.ExtractCategories(doc) {
		filtered := openapi.FilterRoutesByMethods(categoryRoutes, allowed)
		if len(filtered) == 0 {
			// A category with nothing the mutation policy admits isn't a
			// real destination: dropping it keeps browse_categories from
			// advertising a category that selects into zero tools.
			continue
		}
		names := make([]string, 0, len(filtered))
		for _, r := range filtered {
			names = append(names, openapi.ToolNameForRoute(r))
		}
		sort.Strings(names)
		routes[category] = filtered
		index[category] = names
	}

	m := &Manager{
		toolset:        ts,
		mcpServer:      mcpServer,
		categoryRoutes: routes,
		categoryIndex:  index,
		sessions:       newSessionStore(),
	}
	if _, ok := index[defaultCategoryName]; ok {
		m.defaultCategory = defaultCategoryName
	}

	m.registerNavigationTools()
	return m
}

func (m *Manager) registerNavigationTools() {
	m.mcpServer.AddTool(mcp.NewTool("browse_categories",
		mcp.WithDescription("List the available tool categories and how many tools each holds."),
	), m.handleBrowseCategories)

	m.mcpServer.AddTool(mcp.NewTool("select_category",
		mcp.WithDescription("Select a tool category; its tools become visible until you switch or go back."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category name, as listed by browse_categories.")),
	), m.handleSelectCategory)

	m.mcpServer.AddTool(mcp.NewTool("get_current_category",
		mcp.WithDescription("Report the currently selected category, if any."),
	), m.handleGetCurrentCategory)

	m.mcpServer.AddTool(mcp.NewTool("back_to_categories",
		mcp.WithDescription("Clear the selected category and return to the shallow navigation view."),
	), m.handleBackToCategories)
}

// OnSessionRegistered auto-selects the default category (exactly one
// category named "DAG") for a fresh session, keeping the common case one
// hop shallower. Wire this into the MCP server's session-registered hook.
func (m *Manager) OnSessionRegistered(ctx context.Context, session server.ClientSession) {
	if m.defaultCategory == "" {
		return
	}
	m.selectForSession(session.SessionID(), m.defaultCategory)
}

// OnSessionUnregistered destroys the session's category state.
func (m *Manager) OnSessionUnregistered(ctx context.Context, session server.ClientSession) {
	m.sessions.destroy(session.SessionID())
}

func (m *Manager) handleBrowseCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcpadapter.TextResult(openapi.FormatCategories(m.categoryRoutes)), nil
}

func (m *Manager) handleSelectCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcpadapter.ErrorResult(err), nil
	}

	routes, ok := m.categoryRoutes[category]
	if !ok {
		return mcpadapter.TextResult(unknownCategoryMessage(category, m.categoryRoutes)), nil
	}

	session := server.ClientSessionFromContext(ctx)
	if session == nil {
		return mcpadapter.ErrorResult(fmt.Errorf("select_category: no active session")), nil
	}
	m.selectForSession(session.SessionID(), category)

	return mcpadapter.TextResult(openapi.FormatCategoryTools(category, routes)), nil
}

func (m *Manager) handleGetCurrentCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session := server.ClientSessionFromContext(ctx)
	if session == nil {
		return mcpadapter.TextResult("No category selected."), nil
	}
	category := m.sessions.get(session.SessionID()).get()
	if category == "" {
		return mcpadapter.TextResult("No category selected."), nil
	}
	return mcpadapter.TextResult(fmt.Sprintf("Current category: %s (%d tools)", category, len(m.categoryIndex[category]))), nil
}

func (m *Manager) handleBackToCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session := server.ClientSessionFromContext(ctx)
	if session == nil {
		return mcpadapter.TextResult("No category selected."), nil
	}
	sessionID := session.SessionID()
	state := m.sessions.get(sessionID)
	previous := state.get()
	state.clear()

	if previous != "" {
		if prevTools := m.categoryIndex[previous]; len(prevTools) > 0 {
			if err := m.mcpServer.DeleteSessionTools(sessionID, prevTools...); err != nil {
				log.Printf("back_to_categories: removing %s tools: %v", previous, err)
			}
			return mcpadapter.TextResult("Returned to category list."), nil
		}
	}
	// Already Unset (or the prior category had nothing to remove):
	// DeleteSessionTools would not fire on an empty change, but
	// back_to_categories must always notify, even as a no-op.
	if err := m.mcpServer.SendNotificationToSpecificClient(sessionID, "notifications/tools/list_changed", nil); err != nil {
		log.Printf("back_to_categories: notifying no-op transition: %v", err)
	}
	return mcpadapter.TextResult("Returned to category list."), nil
}

// selectForSession performs the state transition shared by select_category
// and the default-category auto-select on session registration: remove
// the previous category's tools (if any), record the new selection, and
// add the new category's tools.
func (m *Manager) selectForSession(sessionID, category string) {
	state := m.sessions.get(sessionID)
	previous := state.get()
	if previous != "" && previous != category {
		if prevTools := m.categoryIndex[previous]; len(prevTools) > 0 {
			if err := m.mcpServer.DeleteSessionTools(sessionID, prevTools...); err != nil {
				log.Printf("select_category: removing %s tools: %v", previous, err)
			}
		}
	}
	state.set(category)
	m.addCategoryTools(sessionID, category)
}

func (m *Manager) addCategoryTools(sessionID, category string) {
	names := m.categoryIndex[category]
	tools := make([]server.ServerTool, 0, len(names))
	for _, name := range names {
		op, ok := m.toolset.Operation(name)
		if !ok {
			// Dropped by read-only mode, or lost a name collision at
			// Toolset construction - skip silently per §4.5.
			continue
		}
		tools = append(tools, server.ServerTool{
			Tool:    mcpadapter.ToMCPToolFromOperation(op),
			Handler: m.operationHandler(op),
		})
	}
	if len(tools) == 0 {
		return
	}
	if err := m.mcpServer.AddSessionTools(sessionID, tools...); err != nil {
		log.Printf("select_category: adding %s tools: %v", category, err)
	}
}

func (m *Manager) operationHandler(op *openapi.OperationDescriptor) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := m.toolset.CallTool(ctx, op.ToolName, req.GetArguments())
		if err != nil {
			return mcpadapter.ErrorResult(err), nil
		}
		return mcpadapter.ToMCPResult(result), nil
	}
}

func unknownCategoryMessage(requested string, categories map[string][]openapi.Route) string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("Category %q not found. Available: %v", requested, names)
}
