package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const greetScenario = `name: greet
session:
  user: alice
steps:
  - assert: { key: user, equals: alice }
`

const loginScenario = `name: login
steps:
  - set: { key: status, value: pending }
  - assert: { key: status, equals: paid }
  - debug: { title: dump }
`

const pollScenario = `name: poll
steps:
  - set: { key: status, value: pending }
  - eventually:
      max_time: 30ms
      interval: 10ms
      steps:
        - assert: { key: status, equals: paid }
`

// writeScenario writes content to dir/name and returns the path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testCommand returns a command whose output is captured.
func testCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetContext(context.Background())
	return cmd, out, errOut
}

// executeRoot runs the root command with args and returns stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommandWithConfig(defaultConfig())
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
