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
	"github.com/pb33f/libopenapi/datamodel/high/base"
)

// refResolver dereferences $refs while guarding against the cyclic,
// self-referential schemas real-world specs sometimes declare (a DAG
// node embedding a list of itself, for instance). Resolved schemas are
// cached by ref string; a ref currently being resolved higher up the
// call stack resolves to a placeholder instead of recursing forever.
type refResolver struct {
	cache     map[string]*base.Schema
	resolving map[string]bool
}

func newRefResolver() *refResolver {
	return &refResolver{
		cache:     make(map[string]*base.Schema),
		resolving: make(map[string]bool),
	}
}

// resolve dereferences proxy, returning the target schema and whether a
// cycle was detected (in which case the returned schema is an empty
// placeholder object, not the real target).
func (r *refResolver) resolve(proxy *base.SchemaProxy) (*base.Schema, bool) {
	if proxy == nil {
		return nil, false
	}
	ref := proxy.GetReference()
	if ref == "" {
		return proxy.Schema(), false
	}
	if cached, ok := r.cache[ref]; ok {
		return cached, false
	}
	if r.resolving[ref] {
		return placeholderObjectSchema(), true
	}
	r.resolving[ref] = true
	schema := proxy.Schema()
	r.resolving[ref] = false
	r.cache[ref] = schema
	return schema, false
}

// placeholderObjectSchema is what a cyclic $ref resolves to: an empty
// object, so tool generation for the enclosing operation still succeeds.
func placeholderObjectSchema() *base.Schema {
	return &base.Schema{
		Type: []string{"object"},
	}
}

// flatSchema is the merged view of a body schema after allOf members
// have been combined into one property set - the shape the Schema
// Compiler actually wants to walk, regardless of how many allOf branches
// contributed to it.
type flatSchema struct {
	objectType string
	properties map[string]*base.SchemaProxy
	required   []string
}

// flatten resolves schema (following $ref via resolver) and, if it is an
// allOf composition, deep-merges every member's properties and required
// lists into one flatSchema. oneOf/anyOf members are not merged: only the
// schema's own properties and those of its allOf members are collected,
// so properties declared only inside oneOf/anyOf branches are not part of
// the result. A $ref re-entered while it is still being flattened higher
// up the allOf chain yields an empty object instead of recursing.
func flatten(proxy *base.SchemaProxy, resolver *refResolver) *flatSchema {
	ref := ""
	if proxy != nil {
		ref = proxy.GetReference()
	}
	if ref != "" && resolver.resolving[ref] {
		return &flatSchema{objectType: "object", properties: map[string]*base.SchemaProxy{}}
	}
	schema, cyclic := resolver.resolve(proxy)
	if schema == nil {
		return &flatSchema{objectType: "object", properties: map[string]*base.SchemaProxy{}}
	}
	if cyclic {
		return &flatSchema{objectType: "object", properties: map[string]*base.SchemaProxy{}}
	}

	out := &flatSchema{
		objectType: schemaTypeString(schema),
		properties: map[string]*base.SchemaProxy{},
	}

	if len(schema.AllOf) > 0 {
		out.objectType = "object"
		if ref != "" {
			resolver.resolving[ref] = true
			defer func() { resolver.resolving[ref] = false }()
		}
		for _, member := range schema.AllOf {
			merged := flatten(member, resolver)
			for name, p := range merged.properties {
				out.properties[name] = p
			}
			out.required = append(out.required, merged.required...)
		}
	}

	if schema.Properties != nil {
		for pair := schema.Properties.First(); pair != nil; pair = pair.Next() {
			out.properties[pair.Key()] = pair.Value()
		}
	}
	out.required = append(out.required, schema.Required...)

	return out
}

// schemaTypeString returns the JSON-Schema primitive type of schema,
// defaulting to "object" when the schema declares no type (as allOf
// member fragments and composition schemas often do).
func schemaTypeString(schema *base.Schema) string {
	if schema == nil || len(schema.Type) == 0 {
		return "object"
	}
	switch schema.Type[0] {
	case "string", "integer", "number", "boolean", "array", "object":
		return schema.Type[0]
	default:
		return "string"
	}
}
