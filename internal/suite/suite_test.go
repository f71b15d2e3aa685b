package suite

import (
	"context"
	"os/exec"
	"testing"

	"caserun/internal/config"
	"caserun/internal/domain"
	"caserun/internal/execution"
	"caserun/internal/registry"
	"caserun/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmoke_AllPass(t *testing.T) {
	reg := registry.New()
	require.NoError(t, Smoke(reg))
	assert.Equal(t, []string{"arithmetic", "strings", "collections", "asyncSuspension"}, reg.Names())

	results, _, err := execution.NewSequential(execution.NewRunner(0, nil), nil).Execute(context.Background(), reg.All())
	require.NoError(t, err)
	summary := report.Summarize(results)
	assert.Equal(t, 4, summary.Passed, "%+v", summary.Failures)
}

func TestSmoke_TwiceIsDuplicate(t *testing.T) {
	reg := registry.New()
	require.NoError(t, Smoke(reg))
	var dup *domain.DuplicateNameError
	assert.ErrorAs(t, Smoke(reg), &dup)
}

func TestLaunch_DisabledWithoutCommand(t *testing.T) {
	reg := registry.New()
	scenarios, err := Launch(reg, config.New(), report.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, scenarios)
	assert.Equal(t, 0, reg.Len())
}

func TestLaunch_BadReadyPattern(t *testing.T) {
	cfg := config.New()
	cfg.LaunchCommand = "app"
	cfg.LaunchReadyPattern = "("
	_, err := Launch(registry.New(), cfg, report.New(), nil)
	assert.Error(t, err)
}

func TestLaunch_PerConfiguration(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	cfg.LaunchCommand = sh
	cfg.LaunchArgs = []string{"-c", `echo "ready $CASERUN_UI_CONFIGURATION"; exec sleep 30`}
	cfg.LaunchReadyPattern = `ready \w+`
	cfg.UIConfigurations = []string{"light", "dark"}

	reg := registry.New()
	rep := report.New()
	scenarios, err := Launch(reg, cfg, rep, nil)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	results, _, err := execution.NewSequential(execution.NewRunner(0, nil), nil).Execute(context.Background(), reg.All())
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, domain.OutcomePass, r.Outcome, r.Reason)
	}

	attachments := rep.Retained(results)
	require.Len(t, attachments, 2)
	assert.Equal(t, "testLaunch[light]", attachments[0].Case)
	assert.Contains(t, string(attachments[0].Payload), "ready light")
	assert.Contains(t, string(attachments[1].Payload), "ready dark")
}
