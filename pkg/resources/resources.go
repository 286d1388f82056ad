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

// Package resources exposes a directory of markdown files as MCP
// resources: one file:// resource per *.md file found directly under a
// configured directory, re-read from disk on every access.
package resources

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Entry describes one discovered markdown file, the slug it was assigned
// for its URI, and its filename stem, used as the resource's human title.
type Entry struct {
	Stem string
	Slug string
	Path string
	URI  string
}

// Discover scans dir for *.md files and assigns each a unique slug
// derived from its filename. A missing directory is not an error: it
// is logged and an empty list is returned, since knowledge resources are
// optional ambient context, not a required operation.
func Discover(dir string) []Entry {
	infos, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("resources: %s not available, skipping knowledge resources: %v", dir, err)
		return nil
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || !strings.EqualFold(filepath.Ext(info.Name()), ".md") {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)

	used := make(map[string]int)
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		slug := slugify(stem)
		used[slug]++
		if n := used[slug]; n > 1 {
			slug = fmt.Sprintf("%s-%d", slug, n)
		}
		entries = append(entries, Entry{
			Stem: stem,
			Slug: slug,
			Path: filepath.Join(dir, name),
			URI:  "file:///" + slug,
		})
	}
	return entries
}

// Register adds one MCP resource per discovered entry to mcpServer. Each
// resource is re-read from disk on every access; none of its content is
// cached, so edits to the source files are visible without a restart.
func Register(mcpServer *server.MCPServer, entries []Entry) {
	for _, entry := range entries {
		entry := entry
		resource := mcp.NewResource(entry.URI, entry.Stem,
			mcp.WithResourceDescription(fmt.Sprintf("Knowledge document: %s", entry.Stem)),
			mcp.WithMIMEType("text/markdown"),
		)
		mcpServer.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return readEntry(entry)
		})
	}
}

func readEntry(entry Entry) ([]mcp.ResourceContents, error) {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("resources: reading %s: %w", entry.Path, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      entry.URI,
			MIMEType: "text/markdown",
			Text:     string(data),
		},
	}, nil
}

func slugify(stem string) string {
	lowered := strings.ToLower(stem)
	slug := nonSlugChars.ReplaceAllString(lowered, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "document"
	}
	return slug
}
