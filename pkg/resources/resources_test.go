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

package resources

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscover_SlugsAndDedup(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "Getting Started.md", "# hi")
	write(t, dir, "getting-started.md", "# hi again")
	write(t, dir, "notes.txt", "ignored")

	entries := Discover(dir)
	if len(entries) != 2 {
		t.Fatalf("expected 2 markdown entries, got %d: %#v", len(entries), entries)
	}

	slugs := map[string]bool{}
	for _, e := range entries {
		slugs[e.Slug] = true
		if e.URI != "file:///"+e.Slug {
			t.Errorf("URI %q does not match slug %q", e.URI, e.Slug)
		}
	}
	if !slugs["getting-started"] || !slugs["getting-started-2"] {
		t.Errorf("expected deduplicated slugs, got %#v", slugs)
	}
}

func TestDiscover_StemIsOriginalFilenameNotSlug(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "Getting Started.md", "# hi")

	entries := Discover(dir)
	if len(entries) != 1 {
		t.Fatalf("expected 1 markdown entry, got %d: %#v", len(entries), entries)
	}
	if entries[0].Stem != "Getting Started" {
		t.Errorf("Stem = %q, want original filename stem %q", entries[0].Stem, "Getting Started")
	}
	if entries[0].Slug != "getting-started" {
		t.Errorf("Slug = %q, want slugified %q", entries[0].Slug, "getting-started")
	}
}

func TestDiscover_MissingDirectoryReturnsEmpty(t *testing.T) {
	entries := Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	if entries != nil {
		t.Errorf("expected nil entries for missing directory, got %#v", entries)
	}
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
}
