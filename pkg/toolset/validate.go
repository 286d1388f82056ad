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
	"github.com/abhishekbhakat/airflow-mcp-server/pkg/openapi"
)

// validateArgs is the boundary JSON-Schema check §4.4 step 2 calls for:
// every required property must be present, and every supplied property
// must roughly match its declared type, and a property the compiled
// schema does not list is rejected as unknown. The compiler does not
// compile properties that appear only inside a oneOf/anyOf body branch,
// so arguments for those are rejected here as unknown properties.
func validateArgs(schema openapi.InputSchema, args map[string]any) error {
	for _, req := range schema.Required {
		if _, ok := args[req]; !ok {
			return newArgError(req, "missing required property %q", req)
		}
	}
	for name, value := range args {
		prop, ok := schema.Properties[name]
		if !ok {
			return newArgError(name, "unknown property %q", name)
		}
		if value == nil {
			continue
		}
		if !typeMatches(prop.Type, value) {
			return newArgError(name, "property %q expected type %s, got %T", name, prop.Type, value)
		}
	}
	return nil
}

func typeMatches(schemaType string, value any) bool {
	switch schemaType {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch value.(type) {
		case int, int32, int64, float64:
			return true
		}
		return false
	case "number":
		switch value.(type) {
		case int, int32, int64, float32, float64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}
