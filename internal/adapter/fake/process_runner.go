package fake

import (
	"context"
	"time"

	"devview/internal/model"
)

var _ model.ProcessRunner = (*ProcessRunner)(nil)

// ProcessRunner is a one-shot fake of model.ProcessRunner: every Run call
// returns the same canned stdout/exit code, simulating a single
// "docker container inspect" invocation without a real container
// runtime.
type ProcessRunner struct {
	CallRecorder

	RunErr   error
	Stdout   string
	ExitCode int
	WaitErr  error

	// Delay, if set, makes the returned handle's Wait block for this
	// long (or until ctx is done, whichever comes first) — for tests
	// that need an inspection still in flight when they act.
	Delay time.Duration
}

// Run implements model.ProcessRunner.
func (r *ProcessRunner) Run(ctx context.Context, spec model.ProcessSpec) (model.ProcessHandle, error) {
	r.record("Run", spec.Exe, spec.Argv)
	if r.RunErr != nil {
		return nil, r.RunErr
	}
	return &processHandle{spec: spec, stdout: r.Stdout, exitCode: r.ExitCode, waitErr: r.WaitErr, delay: r.Delay}, nil
}

type processHandle struct {
	spec      model.ProcessSpec
	stdout    string
	exitCode  int
	waitErr   error
	delay     time.Duration
	delivered bool
}

func (h *processHandle) Wait(ctx context.Context) (model.ProcessResult, error) {
	if h.delay > 0 {
		select {
		case <-time.After(h.delay):
		case <-ctx.Done():
			return model.ProcessResult{}, ctx.Err()
		}
	}
	if !h.delivered {
		h.delivered = true
		if h.spec.OnStdout != nil && h.stdout != "" {
			h.spec.OnStdout(h.stdout)
		}
	}
	if h.waitErr != nil {
		return model.ProcessResult{}, h.waitErr
	}
	return model.ProcessResult{ExitCode: h.exitCode}, nil
}

func (h *processHandle) Close() error { return nil }
