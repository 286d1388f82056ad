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

	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/renderer"
)

// generateToolSamples renders a sample request and a sample success
// response for op, mocked straight off its schemas, so a tool's
// description shows a caller what a real payload looks like instead of
// just the bare JSON-Schema properties. Any render failure is swallowed
// by the caller: samples are a description enhancement, never load-bearing.
func generateToolSamples(op *v3.Operation) (string, error) {
	var samples strings.Builder

	if op.RequestBody != nil {
		if err := generateSampleRequest(&samples, op); err != nil {
			return "", err
		}
	}
	if op.Responses != nil && op.Responses.Codes != nil {
		if err := generateSampleResponse(&samples, op); err != nil {
			return "", err
		}
	}

	return samples.String(), nil
}

func generateSampleRequest(samples *strings.Builder, op *v3.Operation) error {
	samples.WriteString("Sample Request:\n")
	for contentType, mediaType := range op.RequestBody.Content.FromNewest() {
		if mediaType.Schema == nil {
			continue
		}
		mockGen := renderer.NewMockGenerator(renderer.JSON)
		mockGen.SetPretty()
		mockGen.DisableRequiredCheck() // show every property, not just required ones
		sample, err := mockGen.GenerateMock(mediaType.Schema.Schema(), "")
		if err != nil {
			return err
		}
		fmt.Fprintf(samples, "Content-Type: %s\n", contentType)
		fmt.Fprintf(samples, "```json\n%s\n```\n\n", string(sample))
		break // one sample request is enough
	}
	return nil
}

func generateSampleResponse(samples *strings.Builder, op *v3.Operation) error {
	for pair := op.Responses.Codes.First(); pair != nil; pair = pair.Next() {
		statusCode := pair.Key()
		if len(statusCode) != 3 || statusCode[0] != '2' {
			continue
		}
		response := pair.Value()
		if response == nil || response.Content == nil {
			continue
		}
		fmt.Fprintf(samples, "Sample Response (%s):\n", statusCode)
		for contentType, mediaType := range response.Content.FromNewest() {
			if mediaType.Schema == nil {
				continue
			}
			mockGen := renderer.NewMockGenerator(renderer.JSON)
			mockGen.SetPretty()
			mockGen.DisableRequiredCheck() // include system-generated fields too
			sample, err := mockGen.GenerateMock(mediaType.Schema.Schema(), "")
			if err != nil {
				return err
			}
			fmt.Fprintf(samples, "Content-Type: %s\n", contentType)
			fmt.Fprintf(samples, "```json\n%s\n```\n\n", string(sample))
			break
		}
		break // only the first 2xx response gets a sample
	}
	return nil
}
