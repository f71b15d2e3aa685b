package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"caserun/internal/cli"
	"caserun/internal/config"
	"caserun/internal/domain"
	"caserun/internal/exitcodes"
	"caserun/internal/expect"
	"caserun/internal/launch"
	"caserun/internal/registry"
	"caserun/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

type stubApp struct {
	launchErr error
}

func (s *stubApp) Launch(context.Context) error { return s.launchErr }

func (s *stubApp) CaptureArtifact(context.Context) (launch.Artifact, error) {
	return launch.Artifact{MediaType: "image/png", Payload: []byte("png")}, nil
}

func (s *stubApp) Terminate() error { return nil }

func extraCases(launchErr error) SetupFunc {
	return func(reg *registry.Registry, sink report.AttachmentSink) error {
		if err := reg.Register("addition", func(ctx context.Context) error {
			return expect.Check(func(e *expect.Expect) { e.Equal(4, 2+2) })
		}); err != nil {
			return err
		}
		if err := reg.Register("failing", func(ctx context.Context) error {
			return expect.Check(func(e *expect.Expect) { e.Equal(5, 2+2) })
		}); err != nil {
			return err
		}
		s := launch.New("testLaunch", &stubApp{launchErr: launchErr}, sink)
		return reg.Register(s.Name(), s.Body())
	}
}

func newRoot(setup SetupFunc) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	root := &cobra.Command{Use: "caserun", SilenceUsage: true, SilenceErrors: true}
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	cfg := config.New()
	var flags cli.Flags
	NewCommands(cfg, &stdout, &stderr, setup).Register(root, &flags, cfg)
	return root, &stdout, &stderr
}

func loadOutput(t *testing.T, dir string) *domain.RunOutput {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, config.DefaultOutputJSONDir, config.DefaultOutputJSONFile))
	require.NoError(t, err)
	var output domain.RunOutput
	require.NoError(t, json.Unmarshal(data, &output))
	return &output
}

func TestRun_ReportsFailuresAndExitCode(t *testing.T) {
	dir := t.TempDir()
	root, stdout, _ := newRoot(extraCases(nil))
	root.SetArgs([]string{"run", "--project", dir, "--format", "json", "--metrics-file", filepath.Join(dir, "caserun.prom")})

	err := root.Execute()
	require.Error(t, err)
	assert.Equal(t, exitcodes.TestFailure, exitcodes.FromError(err))

	var summary domain.Summary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	// Smoke suite (4) + addition + failing + testLaunch
	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, 6, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "failing", summary.Failures[0].Name)
	assert.Contains(t, summary.Failures[0].Reason, "5")

	output := loadOutput(t, dir)
	require.Len(t, output.Results, 7)
	assert.Equal(t, "testLaunch", output.Results[6].Name)
	require.Len(t, output.Attachments, 1)
	assert.Equal(t, "Launch Screen", output.Attachments[0].Name)
	assert.FileExists(t, output.Attachments[0].Path)
	assert.FileExists(t, filepath.Join(dir, "caserun.prom"))
}

func TestRun_LaunchErrorIsOneFailure(t *testing.T) {
	dir := t.TempDir()
	root, stdout, _ := newRoot(extraCases(errors.New("device not booted")))
	root.SetArgs([]string{"run", "--project", dir, "--format", "json", "--filter", "testLaunch"})

	err := root.Execute()
	assert.Equal(t, exitcodes.TestFailure, exitcodes.FromError(err))

	var summary domain.Summary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	assert.Equal(t, 1, summary.Total)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "testLaunch", summary.Failures[0].Name)
	assert.Contains(t, summary.Failures[0].Reason, "device not booted")
	assert.Empty(t, loadOutput(t, dir).Attachments)
}

func TestRun_AllPassExitsZero(t *testing.T) {
	dir := t.TempDir()
	root, stdout, _ := newRoot(nil)
	root.SetArgs([]string{"run", "--project", dir, "--no-progress"})

	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "Total: 4 | Passed: 4 | Failed: 0")
	assert.Contains(t, stdout.String(), "All test cases passed")
}

func TestRun_EmptySelection(t *testing.T) {
	dir := t.TempDir()
	root, stdout, _ := newRoot(nil)
	root.SetArgs([]string{"run", "--project", dir, "--format", "json", "--filter", "nothing-matches-this"})

	require.NoError(t, root.Execute())
	var summary domain.Summary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	assert.Equal(t, domain.Summary{Failures: []domain.Failure{}}, summary)
	assert.Equal(t, exitcodes.Success, exitcodes.FromError(nil))
}

func TestRun_DuplicateSetupIsRuntimeError(t *testing.T) {
	root, _, _ := newRoot(func(reg *registry.Registry, sink report.AttachmentSink) error {
		return reg.Register("arithmetic", func(context.Context) error { return nil })
	})
	root.SetArgs([]string{"run", "--project", t.TempDir()})

	err := root.Execute()
	var dup *domain.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, exitcodes.RuntimeErr, exitcodes.FromError(err))
}

func TestRun_InvalidFormat(t *testing.T) {
	root, _, _ := newRoot(nil)
	root.SetArgs([]string{"run", "--project", t.TempDir(), "--format", "xml"})
	err := root.Execute()
	require.Error(t, err)
	assert.Equal(t, exitcodes.RuntimeErr, exitcodes.FromError(err))
}

func TestList(t *testing.T) {
	root, stdout, _ := newRoot(extraCases(nil))
	root.SetArgs([]string{"list", "--project", t.TempDir(), "--filter", "*ing"})

	require.NoError(t, root.Execute())
	out := stdout.String()
	assert.Contains(t, out, "strings")
	assert.Contains(t, out, "failing")
	assert.NotContains(t, out, "addition")
}

func TestMigrate_RequiresDSN(t *testing.T) {
	root, _, _ := newRoot(nil)
	root.SetArgs([]string{"migrate", "--project", t.TempDir()})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db-dsn")
}
