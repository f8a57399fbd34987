// Package aio wraps invocation of the Adobe I/O CLI. The rest of the
// codebase only constructs argument vectors and interprets exit codes and
// output; this is the one place a subprocess is spawned.
package aio

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBinary is the aio CLI executable looked up on PATH.
const DefaultBinary = "aio"

// Result is the outcome of one CLI invocation. A nonzero Code is not an
// error at this layer; callers decide what an exit code means.
type Result struct {
	Stdout   string
	Stderr   string
	Code     int
	Duration time.Duration
}

// Combined returns stderr and stdout joined for substring classification.
// The aio CLI is inconsistent about which stream carries error text.
func (r *Result) Combined() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stderr + "\n" + r.Stdout
}

// Runner executes an aio CLI invocation. It returns an error only when
// the process could not be run at all (binary missing, context canceled);
// a process that ran and exited nonzero yields a Result with that Code.
type Runner interface {
	Run(ctx context.Context, args ...string) (*Result, error)
}

// Executor is the production Runner backed by os/exec.
type Executor struct {
	binary string
	log    *zap.Logger
}

// NewExecutor builds an Executor. An empty binary falls back to
// DefaultBinary.
func NewExecutor(binary string, log *zap.Logger) *Executor {
	if binary == "" {
		binary = DefaultBinary
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{binary: binary, log: log}
}

// Run spawns the CLI and captures both streams.
func (e *Executor) Run(ctx context.Context, args ...string) (*Result, error) {
	id := uuid.NewString()
	e.log.Debug("aio invoke",
		zap.String("invocation", id),
		zap.Strings("args", args))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.Code = exitErr.ExitCode()
		} else {
			e.log.Debug("aio spawn failed",
				zap.String("invocation", id),
				zap.Error(err))
			return nil, err
		}
	}

	e.log.Debug("aio done",
		zap.String("invocation", id),
		zap.Int("code", res.Code),
		zap.Duration("duration", res.Duration))
	return res, nil
}
