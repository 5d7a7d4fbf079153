package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Progress is one monitoring sample. Percent is -1 when the source
// duration is unknown.
type Progress struct {
	Seconds float64
	Percent int
}

// Result holds the outcome of a single transcoder invocation.
type Result struct {
	Err      error
	Stderr   string
	TimedOut bool
}

// Executor launches the external transcoder and observes its progress.
// The zero value uses "ffmpeg" from PATH, no timeout, a one-second poll
// interval, and the system temp directory for progress files.
type Executor struct {
	Bin          string
	Timeout      time.Duration // per-conversion cap; 0 disables
	PollInterval time.Duration
	WorkDir      string // where progress files are written
}

// Run launches the transcoder for req in its own process group, polls the
// progress file while the child is alive, and joins both the observer and
// the process wait before returning. onProgress may be nil.
//
// Cancellation or timeout kills the whole process group, not just the
// immediate child, so no transcoder helper processes are orphaned. A
// timeout is reported as a distinct Result.TimedOut.
func (e *Executor) Run(ctx context.Context, req *Request, onProgress func(Progress)) Result {
	bin := e.Bin
	if bin == "" {
		bin = "ffmpeg"
	}
	poll := e.PollInterval
	if poll <= 0 {
		poll = time.Second
	}
	workDir := e.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}

	progressPath := filepath.Join(workDir, "progress-"+uuid.NewString())
	defer os.Remove(progressPath)

	cmd := exec.Command(bin, Build(req, progressPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return Result{Err: fmt.Errorf("starting transcoder: %w", err)}
	}

	done := make(chan struct{})
	var timedOut atomic.Bool

	var timeoutCh <-chan time.Time
	if e.Timeout > 0 {
		timer := time.NewTimer(e.Timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	// Killer: one goroutine owns process-group termination.
	go func() {
		select {
		case <-ctx.Done():
			killGroup(cmd)
		case <-timeoutCh:
			timedOut.Store(true)
			killGroup(cmd)
		case <-done:
		}
	}()

	// Observer: poll the progress file while the child runs.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(poll)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				data, err := os.ReadFile(progressPath)
				if err != nil {
					continue
				}
				if secs, ok := ParseProgress(data); ok && onProgress != nil {
					onProgress(Progress{Seconds: secs, Percent: Percentage(secs, req.TotalDuration)})
				}
			}
		}
	}()

	err := cmd.Wait()
	close(done)
	wg.Wait()

	res := Result{Stderr: stderr.String()}
	switch {
	case timedOut.Load():
		res.TimedOut = true
		res.Err = fmt.Errorf("transcoder timed out after %s", e.Timeout)
	case ctx.Err() != nil:
		res.Err = ctx.Err()
	default:
		res.Err = err
	}
	return res
}

// killGroup terminates the child's whole process group.
func killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
