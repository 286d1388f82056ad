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
	"sort"
	"strings"

	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

const uncategorizedTag = "Uncategorized"

// ExtractCategories walks doc and groups every operation by its first
// OpenAPI tag, falling back to "Uncategorized" for untagged operations.
func ExtractCategories(doc *Document) map[string][]Route {
	categories := map[string][]Route{}
	doc.ForEachOperation(func(path, method string, pathItem *v3.PathItem, op *v3.Operation) {
		tag := uncategorizedTag
		if len(op.Tags) > 0 && op.Tags[0] != "" {
			tag = op.Tags[0]
		}
		categories[tag] = append(categories[tag], Route{
			Path:        path,
			Method:      strings.ToUpper(method),
			OperationID: op.OperationId,
			Tag:         tag,
			Summary:     op.Summary,
			Description: op.Description,
		})
	})
	return categories
}

// FilterRoutesByMethods drops routes whose method is not in allowed.
func FilterRoutesByMethods(routes []Route, allowed map[string]bool) []Route {
	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		if allowed[r.Method] {
			out = append(out, r)
		}
	}
	return out
}

// ToolNameForRoute is tool_name_for_route: operationId if present, else
// a slugified method+path.
func ToolNameForRoute(r Route) string {
	return toolNameForOperation(r.Method, r.Path, r.OperationID)
}

// FormatCategories renders a bulleted category summary with per-category
// tool counts and an instruction to call select_category.
func FormatCategories(categories map[string][]Route) string {
	names := sortedCategoryNames(categories)
	var b strings.Builder
	b.WriteString("Available categories:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s (%d tools)\n", name, len(categories[name]))
	}
	b.WriteString("\nCall select_category(\"<name>\") to see that category's tools.")
	return b.String()
}

// FormatCategoryTools renders the tool list for one category, grouped by
// HTTP method, with an instruction to return via back_to_categories.
func FormatCategoryTools(category string, routes []Route) string {
	byMethod := map[string][]Route{}
	for _, r := range routes {
		byMethod[r.Method] = append(byMethod[r.Method], r)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tools in category %q:\n", category)
	for _, method := range sortedMethodNames(byMethod) {
		fmt.Fprintf(&b, "\n%s:\n", method)
		group := byMethod[method]
		sort.Slice(group, func(i, j int) bool { return ToolNameForRoute(group[i]) < ToolNameForRoute(group[j]) })
		for _, r := range group {
			summary := r.Summary
			if summary == "" {
				summary = r.Description
			}
			fmt.Fprintf(&b, "  %s: %s\n", ToolNameForRoute(r), summary)
		}
	}
	b.WriteString("\nCall back_to_categories() to return to the category list.")
	return b.String()
}

func sortedCategoryNames(categories map[string][]Route) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedMethodNames(byMethod map[string][]Route) []string {
	methods := make([]string, 0, len(byMethod))
	for m := range byMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}
