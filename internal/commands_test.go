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

package cli

import (
	"context"
	"testing"

	"github.com/urfave/cli/v3"
)

// TestParamsFromCommand_MutuallyExclusiveModeFlagsExitCode2 checks that
// --safe/--unsafe misuse is a usage error (exit code 2 per spec.md §6),
// not a configuration error (exit code 1).
func TestParamsFromCommand_MutuallyExclusiveModeFlagsExitCode2(t *testing.T) {
	cmd := GetCommands()[0]
	err := cmd.Run(context.Background(), []string{"serve", "--safe", "--unsafe", "--base-url", "http://x", "--auth-token", "t"})
	requireUsageError(t, err)
}

// TestParamsFromCommand_MutuallyExclusiveTransportFlagsExitCode2 is the
// same check for --http/--sse.
func TestParamsFromCommand_MutuallyExclusiveTransportFlagsExitCode2(t *testing.T) {
	cmd := GetCommands()[0]
	err := cmd.Run(context.Background(), []string{"serve", "--http", "--sse", "--base-url", "http://x", "--auth-token", "t"})
	requireUsageError(t, err)
}

func requireUsageError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	coder, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("expected a cli.ExitCoder, got %T: %v", err, err)
	}
	if coder.ExitCode() != 2 {
		t.Errorf("ExitCode() = %d, want 2 (CLI usage error)", coder.ExitCode())
	}
}
