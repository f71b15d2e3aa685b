package launch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sync"
	"time"

	"caserun/internal/domain"
)

// ConfigurationEnv carries the UI configuration name to the launched process
const ConfigurationEnv = "CASERUN_UI_CONFIGURATION"

// ProcessConfig describes how to start an application process
type ProcessConfig struct {
	Command       string
	Args          []string
	Dir           string
	Env           []string
	Configuration string
	ReadyPattern  *regexp.Regexp // Launch waits for this in the output when set
	ReadyTimeout  time.Duration
}

// ProcessApp is an App backed by an operating system process. Its combined
// output transcript is the captured artifact.
type ProcessApp struct {
	cfg ProcessConfig

	mu      sync.Mutex
	out     *syncBuffer
	cancel  context.CancelFunc
	exited  chan struct{}
	waitErr error
}

// NewProcessApp creates a new ProcessApp
func NewProcessApp(cfg ProcessConfig) *ProcessApp {
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 10 * time.Second
	}
	return &ProcessApp{cfg: cfg}
}

// Launch starts the process and waits until it is ready
func (p *ProcessApp) Launch(ctx context.Context) error {
	if p.cfg.Command == "" {
		return &domain.LaunchError{Err: errors.New("no launch command configured")}
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return &domain.LaunchError{Target: p.cfg.Command, Err: errors.New("already launched")}
	}
	procCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(procCtx, p.cfg.Command, p.cfg.Args...)

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, p.cfg.Env...)
	if p.cfg.Configuration != "" {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", ConfigurationEnv, p.cfg.Configuration))
	}
	cmd.Dir = p.cfg.Dir
	cmd.WaitDelay = time.Second

	out := &syncBuffer{}
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		cancel()
		p.mu.Unlock()
		return &domain.LaunchError{Target: p.cfg.Command, Err: err}
	}

	p.out = out
	p.cancel = cancel
	p.exited = make(chan struct{})
	exited := p.exited
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.waitErr = err
		p.mu.Unlock()
		close(exited)
	}()
	p.mu.Unlock()

	if p.cfg.ReadyPattern == nil {
		return nil
	}
	if err := p.waitReady(ctx, out, exited); err != nil {
		_ = p.Terminate()
		return &domain.LaunchError{Target: p.cfg.Command, Err: err}
	}
	return nil
}

func (p *ProcessApp) waitReady(ctx context.Context, out *syncBuffer, exited <-chan struct{}) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.NewTimer(p.cfg.ReadyTimeout)
	defer deadline.Stop()

	for {
		if p.cfg.ReadyPattern.Match(out.Bytes()) {
			return nil
		}
		select {
		case <-ticker.C:
		case <-exited:
			if p.cfg.ReadyPattern.Match(out.Bytes()) {
				return nil
			}
			return fmt.Errorf("process exited before becoming ready: %v", p.exitErr())
		case <-deadline.C:
			return fmt.Errorf("not ready after %s", p.cfg.ReadyTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *ProcessApp) exitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waitErr == nil {
		return errors.New("exit status 0")
	}
	return p.waitErr
}

// CaptureArtifact returns the output transcript written so far
func (p *ProcessApp) CaptureArtifact(ctx context.Context) (Artifact, error) {
	p.mu.Lock()
	out := p.out
	p.mu.Unlock()
	if out == nil {
		return Artifact{}, errors.New("process not launched")
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	return Artifact{MediaType: "text/plain", Payload: out.Bytes()}, nil
}

// Terminate kills the process and waits for it to exit. It is safe to call more than once.
func (p *ProcessApp) Terminate() error {
	p.mu.Lock()
	cancel, exited := p.cancel, p.exited
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-exited
	return nil
}

// syncBuffer is a bytes.Buffer safe for one writer and concurrent readers
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Bytes returns a copy of the buffered data
func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}
