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

// Package openapi compiles an OpenAPI 3.x document into a catalogue of
// tool-shaped operation descriptors and groups those operations into
// navigable categories.
package openapi

// ParamLocation is where a compiled property originated in the source
// operation: path, query or body. Header and cookie parameters are read
// from the spec but never surface as tool inputs.
type ParamLocation string

const (
	LocationPath  ParamLocation = "path"
	LocationQuery ParamLocation = "query"
	LocationBody  ParamLocation = "body"
)

// SchemaProperty is one property of a compiled input schema.
type SchemaProperty struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Nullable    bool            `json:"nullable,omitempty"`
	Default     any             `json:"default,omitempty"`
	Enum        []any           `json:"enum,omitempty"`
	Items       *SchemaProperty `json:"items,omitempty"`
}

// ToMap renders the property as a plain JSON-Schema fragment, the shape
// mcp.ToolInputSchema.Properties expects.
func (p SchemaProperty) ToMap() map[string]any {
	m := map[string]any{"type": p.Type}
	if p.Description != "" {
		m["description"] = p.Description
	}
	if p.Nullable {
		m["nullable"] = true
	}
	if p.Default != nil {
		m["default"] = p.Default
	}
	if len(p.Enum) > 0 {
		m["enum"] = p.Enum
	}
	if p.Items != nil {
		m["items"] = p.Items.ToMap()
	}
	return m
}

// InputSchema is the compiled `type=object` schema for one tool.
type InputSchema struct {
	Properties map[string]SchemaProperty
	Required   []string
}

// ToMap renders properties into the map[string]any shape mcp-go wants.
func (s InputSchema) ToMap() map[string]any {
	out := make(map[string]any, len(s.Properties))
	for name, prop := range s.Properties {
		out[name] = prop.ToMap()
	}
	return out
}

// ParameterMap records, for a single compiled operation, which bucket
// (path/query/body) each input-schema property was assembled from, plus
// the internal->wire renames applied to reserved-word body properties.
type ParameterMap struct {
	Path        []string
	Query       []string
	Body        []string
	BodyAliases map[string]string // internal property name -> wire (JSON) name
}

// Bucket reports which location a property name was compiled from.
func (m ParameterMap) Bucket(name string) (ParamLocation, bool) {
	for _, p := range m.Path {
		if p == name {
			return LocationPath, true
		}
	}
	for _, p := range m.Query {
		if p == name {
			return LocationQuery, true
		}
	}
	for _, p := range m.Body {
		if p == name {
			return LocationBody, true
		}
	}
	return "", false
}

// WireName returns the name a body property should be serialized under,
// honouring any reserved-word alias recorded for it.
func (m ParameterMap) WireName(internalName string) string {
	if wire, ok := m.BodyAliases[internalName]; ok {
		return wire
	}
	return internalName
}

// OperationDescriptor is the compiled, self-sufficient description of one
// advertised tool: enough to both render an MCP tool definition and to
// rebuild the HTTP request it stands for.
type OperationDescriptor struct {
	ToolName     string
	HTTPMethod   string
	PathTemplate string
	Summary      string
	Description  string
	Tag          string
	InputSchema  InputSchema
	RequiredKeys []string
	ParameterMap ParameterMap
	ContentType  string
	Samples      string
}

// Route is one OpenAPI operation as seen by the Category Mapper, before
// it is handed to the Schema Compiler.
type Route struct {
	Path        string
	Method      string
	OperationID string
	Tag         string
	Summary     string
	Description string
}
