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

package openapi

import (
	"strings"
	"testing"
)

func TestExtractCategories(t *testing.T) {
	doc := mustLoadTestDocument(t)
	categories := ExtractCategories(doc)

	if len(categories["Items"]) != 2 {
		t.Errorf("expected 2 routes in Items, got %d", len(categories["Items"]))
	}
	if len(categories["Connections"]) != 1 {
		t.Errorf("expected 1 route in Connections, got %d", len(categories["Connections"]))
	}
}

func TestFilterRoutesByMethods(t *testing.T) {
	doc := mustLoadTestDocument(t)
	routes := ExtractCategories(doc)["Items"]

	getOnly := FilterRoutesByMethods(routes, map[string]bool{"GET": true})
	if len(getOnly) != 1 {
		t.Fatalf("expected 1 GET route, got %d", len(getOnly))
	}
	if getOnly[0].Method != "GET" {
		t.Errorf("expected GET, got %s", getOnly[0].Method)
	}
}

func TestToolNameForRoute(t *testing.T) {
	r := Route{Method: "POST", Path: "/users/{id}", OperationID: ""}
	if got := ToolNameForRoute(r); got != "post_users_id" {
		t.Errorf("ToolNameForRoute() = %q, want post_users_id", got)
	}

	r2 := Route{Method: "GET", Path: "/users", OperationID: "listUsers"}
	if got := ToolNameForRoute(r2); got != "listUsers" {
		t.Errorf("ToolNameForRoute() = %q, want listUsers", got)
	}
}

func TestFormatCategories_ListsAllCategories(t *testing.T) {
	doc := mustLoadTestDocument(t)
	summary := FormatCategories(ExtractCategories(doc))

	for _, want := range []string{"Items", "Connections", "select_category"} {
		if !strings.Contains(summary, want) {
			t.Errorf("expected summary to mention %q, got: %s", want, summary)
		}
	}
}
