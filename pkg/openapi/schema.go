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
	"fmt"
	"strings"

	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// contentTypePriority mirrors the order a request body's media types are
// preferred in: JSON first (the only shape a real Airflow spec ever
// declares), then the other content types the request-body side of this
// compiler still knows how to describe.
var contentTypePriority = []string{
	"application/json",
	"application/xml",
	"text/xml",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"text/plain",
}

// reservedBodyWords are wire property names that would collide with a
// Go-side or JSON-Schema-side reserved identifier if exposed unchanged;
// they are renamed to "<resource>_<name>" with the original recorded as
// a body alias.
var reservedBodyWords = map[string]bool{
	"schema": true,
}

type paramKey struct{ name, in string }

// collectParameters merges path-item-level and operation-level
// parameters, deduped by (name, in), with the operation-level definition
// winning on conflict.
func collectParameters(pathItem *v3.PathItem, op *v3.Operation) map[paramKey]*v3.Parameter {
	merged := map[paramKey]*v3.Parameter{}
	for _, p := range pathItem.Parameters {
		merged[paramKey{p.Name, p.In}] = p
	}
	for _, p := range op.Parameters {
		merged[paramKey{p.Name, p.In}] = p
	}
	return merged
}

// CompileDocument compiles every operation in doc into an
// OperationDescriptor, sharing one ref resolver across the whole walk so
// repeated $refs are only resolved once.
func CompileDocument(doc *Document) []*OperationDescriptor {
	resolver := newRefResolver()
	var out []*OperationDescriptor
	doc.ForEachOperation(func(path, method string, pathItem *v3.PathItem, op *v3.Operation) {
		tag := uncategorizedTag
		if len(op.Tags) > 0 && op.Tags[0] != "" {
			tag = op.Tags[0]
		}
		out = append(out, CompileOperation(path, method, tag, pathItem, op, resolver))
	})
	return out
}

// CompileOperation turns a single OpenAPI operation into an
// OperationDescriptor: a flat input schema plus the parameter map that
// remembers where every property came from.
func CompileOperation(path, method, tag string, pathItem *v3.PathItem, op *v3.Operation, resolver *refResolver) *OperationDescriptor {
	desc := &OperationDescriptor{
		ToolName:     toolNameForOperation(method, path, op.OperationId),
		HTTPMethod:   strings.ToUpper(method),
		PathTemplate: path,
		Summary:      op.Summary,
		Description:  op.Description,
		Tag:          tag,
		ContentType:  "application/json",
	}

	properties := map[string]SchemaProperty{}
	var required []string
	paramMap := ParameterMap{BodyAliases: map[string]string{}}

	for key, param := range collectParameters(pathItem, op) {
		if key.in != "path" && key.in != "query" {
			continue // headers and cookies are never surfaced as tool inputs
		}
		prop, explicitlyRequired := compileParameterProperty(param, resolver)
		properties[param.Name] = prop
		switch key.in {
		case "path":
			paramMap.Path = append(paramMap.Path, param.Name)
			required = append(required, param.Name) // path params are always required
		case "query":
			paramMap.Query = append(paramMap.Query, param.Name)
			if explicitlyRequired {
				required = append(required, param.Name)
			}
		}
	}

	if op.RequestBody != nil {
		contentType, media := selectRequestBodyContent(op.RequestBody)
		desc.ContentType = contentType
		bodyRequired := op.RequestBody.Required != nil && *op.RequestBody.Required

		if media != nil && contentType == "application/json" && media.Schema != nil {
			flat := flatten(media.Schema, resolver)
			renameOf := map[string]string{}
			for name, propProxy := range flat.properties {
				resourcePrefix := strings.ToLower(tag)
				internalName, wireName, renamed := renameIfReserved(name, resourcePrefix)
				renameOf[name] = internalName

				schema, _ := resolver.resolve(propProxy)
				properties[internalName] = schemaToProperty(schema)
				paramMap.Body = append(paramMap.Body, internalName)
				if renamed {
					paramMap.BodyAliases[internalName] = wireName
				}
			}
			for _, name := range flat.required {
				if internalName, ok := renameOf[name]; ok {
					required = append(required, internalName)
				} else {
					required = append(required, name)
				}
			}
		} else if media != nil {
			// Non-JSON body: a single opaque property, documented in the
			// tool description instead of decomposed into properties.
			properties["body"] = SchemaProperty{
				Type:        "string",
				Description: fmt.Sprintf("Raw request body (%s).", contentType),
			}
			paramMap.Body = append(paramMap.Body, "body")
			if bodyRequired {
				required = append(required, "body")
			}
			desc.Description = appendSchemaDocumentation(desc.Description, contentType, media)
		}
	}

	desc.InputSchema = InputSchema{Properties: properties, Required: dedupe(required)}
	desc.RequiredKeys = desc.InputSchema.Required
	desc.ParameterMap = paramMap
	if samples, err := generateToolSamples(op); err == nil {
		desc.Samples = samples
	}
	return desc
}

// compileParameterProperty builds a schema property for a path/query
// parameter. Path parameters are always required; query parameters
// honour their declared `required` flag, defaulting to false.
func compileParameterProperty(param *v3.Parameter, resolver *refResolver) (SchemaProperty, bool) {
	prop := SchemaProperty{Type: "string", Description: param.Description}
	if param.Schema != nil {
		if schema, _ := resolver.resolve(param.Schema); schema != nil {
			prop = schemaToProperty(schema)
			if prop.Description == "" {
				prop.Description = param.Description
			}
		}
	}
	explicitlyRequired := param.Required != nil && *param.Required
	return prop, explicitlyRequired
}

// schemaToProperty converts a resolved schema node into a SchemaProperty.
func schemaToProperty(schema *base.Schema) SchemaProperty {
	if schema == nil {
		return SchemaProperty{Type: "string"}
	}
	prop := SchemaProperty{
		Type:        schemaTypeString(schema),
		Description: schema.Description,
	}
	if schema.Nullable != nil {
		prop.Nullable = *schema.Nullable
	}
	if schema.Default != nil {
		prop.Default = schema.Default
	}
	if len(schema.Enum) > 0 {
		prop.Enum = schema.Enum
	}
	if prop.Type == "array" && schema.Items != nil && schema.Items.A != nil {
		if itemSchema := schema.Items.A.Schema(); itemSchema != nil {
			items := schemaToProperty(itemSchema)
			prop.Items = &items
		}
	}
	return prop
}

// selectRequestBodyContent picks the first content type present in body,
// preferring JSON, and returns it along with its media type node.
func selectRequestBodyContent(body *v3.RequestBody) (string, *v3.MediaType) {
	if body.Content == nil {
		return "application/json", nil
	}
	for _, ct := range contentTypePriority {
		if media, ok := body.Content.Get(ct); ok {
			return ct, media
		}
	}
	for pair := body.Content.First(); pair != nil; pair = pair.Next() {
		return pair.Key(), pair.Value()
	}
	return "application/json", nil
}

// appendSchemaDocumentation appends a short human-readable note about a
// non-JSON request body's expected shape to the operation's description
// text, since the body itself collapses to one opaque string property.
// The advertised tool description uses the summary when one is present,
// so the note is shown only for operations without a summary.
func appendSchemaDocumentation(description, contentType string, media *v3.MediaType) string {
	note := fmt.Sprintf("\n\nExpects a %s request body.", contentType)
	if media.Schema != nil {
		if schema := media.Schema.Schema(); schema != nil && schema.Description != "" {
			note += " " + schema.Description
		}
	}
	return description + note
}

// renameIfReserved mechanically renames a body property whose wire name
// collides with a reserved word, returning the internal (Go/JSON-Schema
// facing) name, the original wire name, and whether a rename happened.
func renameIfReserved(name, resourcePrefix string) (internalName, wireName string, renamed bool) {
	if !reservedBodyWords[name] {
		return name, name, false
	}
	prefix := resourcePrefix
	if prefix == "" {
		prefix = "resource"
	}
	return prefix + "_" + name, name, true
}

// toolNameForOperation mirrors tool_name_for_route: operationId if
// present, else a slugified "method_path".
func toolNameForOperation(method, path, operationID string) string {
	if operationID != "" {
		return operationID
	}
	return slugify(method + "_" + path)
}

func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	// collapse repeated underscores
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
