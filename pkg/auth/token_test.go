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

package auth

import "testing"

func TestCheckToken_EmptyTokenIsFine(t *testing.T) {
	if err := CheckToken("", ""); err != nil {
		t.Errorf("expected no error for an empty token, got %v", err)
	}
}

func TestCheckToken_OpaqueAPIKeyIsFine(t *testing.T) {
	if err := CheckToken("sk-some-opaque-api-key", ""); err != nil {
		t.Errorf("expected no error for an opaque token without a JWKS URI, got %v", err)
	}
}

func TestLooksLikeJWT(t *testing.T) {
	cases := map[string]bool{
		"sk-opaque-key":  false,
		"a.b.c":          true,
		"a.b":            false,
		"a.b.c.d":        false,
	}
	for token, want := range cases {
		if got := looksLikeJWT(token); got != want {
			t.Errorf("looksLikeJWT(%q) = %v, want %v", token, got, want)
		}
	}
}
