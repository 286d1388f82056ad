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

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// Document wraps the libopenapi high-level v3 model this package compiles
// operations from.
type Document struct {
	Model *v3.Document
}

// LoadDocument parses raw OpenAPI document bytes (as fetched from
// `${base_url}/openapi.json`) and builds the high-level v3 model used by
// the rest of this package. It does not fetch anything itself - the
// caller owns the HTTP round trip and any transport-failure handling.
func LoadDocument(raw []byte) (*Document, error) {
	config := datamodel.NewDocumentConfiguration()
	config.AllowFileReferences = false
	config.AllowRemoteReferences = false

	doc, err := libopenapi.NewDocumentWithConfiguration(raw, config)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}

	model, errs := doc.BuildV3Model()
	if len(errs) > 0 {
		return nil, fmt.Errorf("build openapi v3 model: %w", errs[0])
	}

	if err := validateDocument(&model.Model); err != nil {
		return nil, err
	}

	return &Document{Model: &model.Model}, nil
}

// validateDocument enforces the minimal shape §4.6 requires before a
// Toolset can be constructed from it.
func validateDocument(model *v3.Document) error {
	if model.Version == "" {
		return fmt.Errorf("openapi document missing version field")
	}
	if model.Info == nil {
		return fmt.Errorf("openapi document missing info section")
	}
	if model.Paths == nil || model.Paths.PathItems == nil || model.Paths.PathItems.Len() == 0 {
		return fmt.Errorf("openapi document missing paths section")
	}
	return nil
}

// ForEachOperation walks every path item and HTTP method in the document,
// invoking fn with the route metadata and the underlying operation model.
// Non-method keys (parameters, x- extensions) are not operations and are
// never visited - GetOperations already excludes them.
func (d *Document) ForEachOperation(fn func(path, method string, pathItem *v3.PathItem, op *v3.Operation)) {
	if d.Model.Paths == nil || d.Model.Paths.PathItems == nil {
		return
	}
	for pair := d.Model.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		pathItem := pair.Value()
		for opPair := pathItem.GetOperations().First(); opPair != nil; opPair = opPair.Next() {
			method := opPair.Key()
			op := opPair.Value()
			fn(path, method, pathItem, op)
		}
	}
}
