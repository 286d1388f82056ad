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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abhishekbhakat/airflow-mcp-server/pkg/airflowclient"
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/openapi"
)

const dispatchSpec = `
openapi: 3.0.0
info:
  title: Items API
  version: 1.0.0
paths:
  /items/{item_id}:
    get:
      operationId: get_item
      tags: [Items]
      summary: Fetch an item
      parameters:
        - name: item_id
          in: path
          required: true
          schema:
            type: string
        - name: limit
          in: query
          schema:
            type: integer
        - name: exclude_stale
          in: query
          schema:
            type: boolean
        - name: order_by
          in: query
          schema:
            type: array
            items:
              type: string
`

// TestDispatch_PrimitiveSerialization is scenario S2.
func TestDispatch_PrimitiveSerialization(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	doc, err := openapi.LoadDocument([]byte(dispatchSpec))
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	client := airflowclient.New(srv.URL, "token")
	ts := New(doc, false, client)

	result, err := ts.CallTool(context.Background(), "get_item", map[string]any{
		"item_id":       "alpha",
		"limit":         5,
		"exclude_stale": true,
		"order_by":      []any{"dag_id"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}

	if gotMethod != "GET" {
		t.Errorf("method = %s, want GET", gotMethod)
	}
	if gotPath != "/items/alpha" {
		t.Errorf("path = %s, want /items/alpha", gotPath)
	}
	if gotAuth != "Bearer token" {
		t.Errorf("auth header = %q, want %q", gotAuth, "Bearer token")
	}
	expectedQuery := "exclude_stale=true&limit=5&order_by=dag_id"
	if gotQuery != expectedQuery {
		t.Errorf("query = %q, want %q", gotQuery, expectedQuery)
	}

	if result.Structured == nil {
		t.Fatal("expected structured JSON result")
	}
	structured, ok := result.Structured.(map[string]any)
	if !ok || structured["ok"] != true {
		t.Errorf("unexpected structured payload: %#v", result.Structured)
	}
}

// TestDispatch_TextFallback is scenario S3.
func TestDispatch_TextFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("plain text"))
	}))
	defer srv.Close()

	doc, _ := openapi.LoadDocument([]byte(dispatchSpec))
	client := airflowclient.New(srv.URL, "token")
	ts := New(doc, false, client)

	result, err := ts.CallTool(context.Background(), "get_item", map[string]any{"item_id": "alpha"})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.Structured != nil {
		t.Error("expected no structured payload for text/plain response")
	}
	if len(result.Content) != 1 || result.Content[0].Text != "plain text" {
		t.Errorf("unexpected content parts: %#v", result.Content)
	}
}

// TestDispatch_JSONStructuredResult is scenario S4.
func TestDispatch_JSONStructuredResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	doc, _ := openapi.LoadDocument([]byte(dispatchSpec))
	client := airflowclient.New(srv.URL, "token")
	ts := New(doc, false, client)

	result, err := ts.CallTool(context.Background(), "get_item", map[string]any{"item_id": "alpha"})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if len(result.Content) != 0 {
		t.Errorf("expected no content parts for JSON result, got %#v", result.Content)
	}
	structured, ok := result.Structured.(map[string]any)
	if !ok || structured["ok"] != true {
		t.Errorf("unexpected structured payload: %#v", result.Structured)
	}
}

// TestDispatch_UpstreamErrorSurfacedNotThrown checks HTTP>=400 is an
// error content part, not a Go error.
func TestDispatch_UpstreamErrorSurfacedNotThrown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	doc, _ := openapi.LoadDocument([]byte(dispatchSpec))
	client := airflowclient.New(srv.URL, "token")
	ts := New(doc, false, client)

	result, err := ts.CallTool(context.Background(), "get_item", map[string]any{"item_id": "alpha"})
	if err != nil {
		t.Fatalf("transport-level error should not be raised for a 404 response: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError=true for a 404 response")
	}
}
