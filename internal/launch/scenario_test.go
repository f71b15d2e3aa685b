package launch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"caserun/internal/domain"
	"caserun/internal/execution"
	"caserun/internal/registry"
	"caserun/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApp struct {
	launchErr  error
	captureErr error
	panicOn    string
	artifact   Artifact

	calls      []string
	terminated int
}

func (f *fakeApp) Launch(ctx context.Context) error {
	f.calls = append(f.calls, "launch")
	if f.panicOn == "launch" {
		panic("launch exploded")
	}
	return f.launchErr
}

func (f *fakeApp) CaptureArtifact(ctx context.Context) (Artifact, error) {
	f.calls = append(f.calls, "capture")
	if f.panicOn == "capture" {
		panic("capture exploded")
	}
	return f.artifact, f.captureErr
}

func (f *fakeApp) Terminate() error {
	f.calls = append(f.calls, "terminate")
	f.terminated++
	return nil
}

func TestScenario_HappyPath(t *testing.T) {
	app := &fakeApp{artifact: Artifact{MediaType: "image/png", Payload: []byte{0x89, 'P', 'N', 'G'}}}
	rep := report.New()
	var acted bool
	s := New("testLaunch", app, rep, WithActions(func(ctx context.Context, a App) error {
		acted = true
		return nil
	}))
	assert.Equal(t, NotStarted, s.State())

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, Attached, s.State())
	assert.True(t, acted)
	assert.Equal(t, []string{"launch", "capture", "terminate"}, app.calls)

	attachments := rep.Attachments()
	require.Len(t, attachments, 1)
	assert.Equal(t, "Launch Screen", attachments[0].Name)
	assert.Equal(t, "testLaunch", attachments[0].Case)
	assert.Equal(t, domain.KeepAlways, attachments[0].Lifetime)
	assert.Equal(t, "image/png", attachments[0].MediaType)
}

func TestScenario_LaunchFailure(t *testing.T) {
	app := &fakeApp{launchErr: errors.New("simulator unavailable")}
	rep := report.New()
	s := New("testLaunch", app, rep)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsLaunchError(err))
	assert.Contains(t, err.Error(), "simulator unavailable")
	assert.Equal(t, Failed, s.State())
	assert.Empty(t, rep.Attachments())
	assert.Equal(t, 0, app.terminated, "nothing to release when launch failed")
}

func TestScenario_ReleasesOnCaptureFailure(t *testing.T) {
	app := &fakeApp{captureErr: errors.New("screen locked")}
	rep := report.New()
	s := New("testLaunch", app, rep)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screen locked")
	assert.Equal(t, Failed, s.State())
	assert.Equal(t, 1, app.terminated)
	assert.Empty(t, rep.Attachments())
}

func TestScenario_ReleasesOnActionFailure(t *testing.T) {
	app := &fakeApp{}
	s := New("testLaunch", app, report.New(), WithActions(func(ctx context.Context, a App) error {
		return errors.New("login failed")
	}))

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
	assert.Equal(t, []string{"launch", "terminate"}, app.calls)
}

func TestScenario_ReleasesOnPanic(t *testing.T) {
	app := &fakeApp{panicOn: "capture"}
	s := New("testLaunch", app, report.New())

	err := s.Execute(context.Background())
	var fault *domain.UnexpectedFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, Failed, s.State())
	assert.Equal(t, 1, app.terminated)
}

func TestScenario_RunsOnce(t *testing.T) {
	s := New("testLaunch", &fakeApp{}, report.New())
	require.NoError(t, s.Execute(context.Background()))
	assert.Error(t, s.Execute(context.Background()))
}

type blockingApp struct {
	release  chan struct{}
	launches atomic.Int32
}

func (b *blockingApp) Launch(ctx context.Context) error {
	b.launches.Add(1)
	<-b.release
	return nil
}

func (b *blockingApp) CaptureArtifact(ctx context.Context) (Artifact, error) {
	return Artifact{MediaType: "text/plain"}, nil
}

func (b *blockingApp) Terminate() error { return nil }

func TestScenario_ConcurrentExecuteLaunchesOnce(t *testing.T) {
	app := &blockingApp{release: make(chan struct{})}
	s := New("testLaunch", app, report.New())

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Execute(context.Background())
		}()
	}

	// Every caller but the one holding the launch is rejected without blocking
	var rejected int
	for range callers - 1 {
		require.Error(t, <-errs)
		rejected++
	}
	close(app.release)
	wg.Wait()
	require.NoError(t, <-errs)

	assert.Equal(t, callers-1, rejected)
	assert.Equal(t, int32(1), app.launches.Load())
	assert.Equal(t, Attached, s.State())
}

func TestScenario_CustomLifetime(t *testing.T) {
	rep := report.New()
	s := New("testLaunch", &fakeApp{}, rep, WithLifetime(domain.DeleteOnSuccess))
	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, domain.DeleteOnSuccess, rep.Attachments()[0].Lifetime)
}

func TestScenario_LaunchFailureInRun(t *testing.T) {
	reg := registry.New()
	rep := report.New()
	require.NoError(t, reg.Register("before", func(ctx context.Context) error { return nil }))
	s := New("testLaunch", &fakeApp{launchErr: errors.New("app not installed")}, rep)
	require.NoError(t, reg.Register(s.Name(), s.Body()))

	exec := execution.NewSequential(execution.NewRunner(0, nil), nil)
	results, _, err := exec.Execute(context.Background(), reg.All())
	require.NoError(t, err)

	summary := report.Summarize(results)
	assert.Equal(t, 2, summary.Total)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "testLaunch", summary.Failures[0].Name)
	assert.Contains(t, summary.Failures[0].Reason, "app not installed")
	assert.Empty(t, rep.Retained(results))
}

func TestRegisterEach(t *testing.T) {
	reg := registry.New()
	rep := report.New()
	var configs []string
	scenarios, err := RegisterEach(reg, "testLaunch", []string{"light", "dark"}, func(config string) App {
		configs = append(configs, config)
		return &fakeApp{}
	}, rep)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, []string{"light", "dark"}, configs)
	assert.Equal(t, []string{"testLaunch[light]", "testLaunch[dark]"}, reg.Names())

	single, err := RegisterEach(registry.New(), "testLaunch", nil, func(string) App { return &fakeApp{} }, rep)
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, "testLaunch", single[0].Name())
}

func TestRegisterEach_Duplicate(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("testLaunch[dark]", func(ctx context.Context) error { return nil }))

	_, err := RegisterEach(reg, "testLaunch", []string{"light", "dark"}, func(string) App { return &fakeApp{} }, report.New())
	var dup *domain.DuplicateNameError
	require.ErrorAs(t, err, &dup)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "attached", Attached.String())
	assert.Equal(t, "state(42)", State(42).String())
}
