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

package hierarchical

import (
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	"github.com/abhishekbhakat/airflow-mcp-server/pkg/airflowclient"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/openapi"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/toolset"
)

const hierarchicalSpec = `
openapi: 3.0.0
info:
  title: Airflow API
  version: 1.0.0
paths:
  /dags/{dag_id}:
    get:
      operationId: get_dag
      tags: [DAG]
      summary: Fetch a DAG
      parameters:
        - name: dag_id
          in: path
          required: true
          schema:
            type: string
    delete:
      operationId: delete_dag
      tags: [DAG]
      summary: Delete a DAG
      parameters:
        - name: dag_id
          in: path
          required: true
          schema:
            type: string
  /connections:
    get:
      operationId: list_connections
      tags: [Connection]
      summary: List connections
  /connections/{connection_id}:
    delete:
      operationId: delete_connection
      tags: [MutateOnly]
      summary: Delete a connection
      parameters:
        - name: connection_id
          in: path
          required: true
          schema:
            type: string
`

func newTestManager(t *testing.T, allowMutations bool) *Manager {
	t.Helper()
	doc, err := openapi.LoadDocument([]byte(hierarchicalSpec))
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	client := airflowclient.New("http://example.com", "token")
	ts := toolset.New(doc, allowMutations, client)
	mcpServer := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(true))
	return NewManager(mcpServer, ts, doc)
}

// TestManager_DefaultCategorySelection checks that a document containing a
// category literally named "DAG" is recorded as the default, per §4.5
// (scenario S5).
func TestManager_DefaultCategorySelection(t *testing.T) {
	m := newTestManager(t, true)
	if m.defaultCategory != "DAG" {
		t.Fatalf("defaultCategory = %q, want DAG", m.defaultCategory)
	}
}

// TestManager_SessionIsolation is Testable Property 6: two sessions never
// observe each other's selected category.
func TestManager_SessionIsolation(t *testing.T) {
	m := newTestManager(t, true)

	m.selectForSession("session-a", "DAG")
	m.selectForSession("session-b", "Connection")

	if got := m.sessions.get("session-a").get(); got != "DAG" {
		t.Errorf("session-a category = %q, want DAG", got)
	}
	if got := m.sessions.get("session-b").get(); got != "Connection" {
		t.Errorf("session-b category = %q, want Connection", got)
	}
}

// TestManager_SwitchingCategoryReplacesSelection checks that selecting a
// second category while one is already active still leaves exactly one
// category selected (the new one), not both.
func TestManager_SwitchingCategoryReplacesSelection(t *testing.T) {
	m := newTestManager(t, true)

	m.selectForSession("session-a", "DAG")
	m.selectForSession("session-a", "Connection")

	if got := m.sessions.get("session-a").get(); got != "Connection" {
		t.Errorf("category after switch = %q, want Connection", got)
	}
}

// TestManager_UnknownCategoryMessage is scenario S6: selecting a category
// that does not exist must name the available ones rather than fail silently.
func TestManager_UnknownCategoryMessage(t *testing.T) {
	m := newTestManager(t, true)
	msg := unknownCategoryMessage("Bogus", m.categoryRoutes)
	if !strings.Contains(msg, "Bogus") || !strings.Contains(msg, "DAG") || !strings.Contains(msg, "Connection") {
		t.Errorf("unexpected message: %s", msg)
	}
}

// TestManager_ReadOnlyCategorySkipsMutationTools checks that a mutation
// operation dropped in read-only mode is absent from its category's tool
// index and does not resolve through the Toolset either.
func TestManager_ReadOnlyCategorySkipsMutationTools(t *testing.T) {
	m := newTestManager(t, false)
	names := m.categoryIndex["DAG"]
	for _, name := range names {
		if name == "delete_dag" {
			t.Fatalf("read-only category index should not list delete_dag")
		}
	}
	if _, ok := m.toolset.Operation("delete_dag"); ok {
		t.Fatalf("read-only toolset should not resolve delete_dag")
	}
}

// TestManager_SafeModeDropsMutationOnlyCategory checks that a category
// whose every route is a dropped mutation method - "MutateOnly" here,
// which has nothing but a DELETE - is absent from both categoryRoutes and
// categoryIndex entirely in safe mode, rather than advertised with zero
// selectable tools.
func TestManager_SafeModeDropsMutationOnlyCategory(t *testing.T) {
	m := newTestManager(t, false)

	if _, ok := m.categoryRoutes["MutateOnly"]; ok {
		t.Error("safe-mode categoryRoutes should not list a category with no allowed routes")
	}
	if _, ok := m.categoryIndex["MutateOnly"]; ok {
		t.Error("safe-mode categoryIndex should not list a category with no allowed routes")
	}

	msg := openapi.FormatCategories(m.categoryRoutes)
	if strings.Contains(msg, "MutateOnly") {
		t.Errorf("browse_categories output should not advertise MutateOnly in safe mode: %s", msg)
	}
}

// TestManager_UnsafeModeKeepsMutationOnlyCategory is the converse: with
// mutations allowed, MutateOnly's single DELETE route survives filtering.
func TestManager_UnsafeModeKeepsMutationOnlyCategory(t *testing.T) {
	m := newTestManager(t, true)

	names := m.categoryIndex["MutateOnly"]
	if len(names) != 1 || names[0] != "delete_connection" {
		t.Errorf("categoryIndex[MutateOnly] = %v, want [delete_connection]", names)
	}
}
