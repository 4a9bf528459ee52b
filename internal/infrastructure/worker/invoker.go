// Package worker invokes the external Python inference process. The call is
// effectively a synchronous RPC over process stdio: the request is argv, the
// response is a single JSON document on stdout, buffered in full and parsed
// only after the process exits. stderr is a diagnostic side channel: it is
// logged line by line and never parsed.
package worker

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/neuroscan/scan-api/internal/api/metrics"
	"github.com/neuroscan/scan-api/internal/core/domain"
)

const (
	defaultTimeout       = 60 * time.Second
	defaultMaxConcurrent = 4
)

// Config holds the invocation settings for the worker process.
type Config struct {
	// PythonBin is the interpreter used to run the script.
	PythonBin string
	// ScriptPath is the prediction script.
	ScriptPath string
	// ExtractorPath and ClassifierPath are the model artifacts passed to the
	// script as fixed positional arguments.
	ExtractorPath  string
	ClassifierPath string
	// Timeout bounds a single invocation. Zero or negative selects the
	// default.
	Timeout time.Duration
	// MaxConcurrent bounds the number of worker processes running at once.
	// Zero or negative selects the default.
	MaxConcurrent int
}

// Invoker spawns one worker process per classification request, bounded by a
// fixed-capacity semaphore so a burst of uploads cannot fork an unbounded
// number of Python interpreters.
type Invoker struct {
	cfg Config
	sem chan struct{}
	log zerolog.Logger
}

func NewInvoker(cfg Config, log zerolog.Logger) *Invoker {
	if cfg.PythonBin == "" {
		cfg.PythonBin = "python3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	return &Invoker{
		cfg: cfg,
		sem: make(chan struct{}, cfg.MaxConcurrent),
		log: log,
	}
}

// workerOutput is the single JSON document the worker writes to stdout.
type workerOutput struct {
	Success bool `json:"success"`
	Result  *struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"result"`
	Error string `json:"error"`
}

// Classify runs the worker against the stored asset and maps the process
// outcome:
//
//   - non-zero exit, timeout, or cancellation while queued for a slot:
//     domain.ErrWorkerExecution, output ignored even when syntactically valid
//   - exit 0 with success:false: *domain.WorkerError carrying the message
//   - exit 0 with unparsable or shape-invalid stdout: domain.ErrMalformedOutput
//   - exit 0 with a valid success payload: the parsed result
//
// Worker failures never partially succeed; no retry is attempted.
func (v *Invoker) Classify(ctx context.Context, asset *domain.UploadedAsset) (*domain.InferenceResult, error) {
	select {
	case v.sem <- struct{}{}:
		defer func() { <-v.sem }()
	case <-ctx.Done():
		v.log.Warn().Err(ctx.Err()).Str("asset", asset.StoredName).Msg("cancelled while waiting for a worker slot")
		return nil, domain.ErrWorkerExecution
	}

	metrics.InferenceInFlight.Inc()
	defer metrics.InferenceInFlight.Dec()

	start := time.Now()
	outcome := "exec_error"
	defer func() {
		metrics.InferenceRunsTotal.WithLabelValues(outcome).Inc()
		metrics.InferenceDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	runCtx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, v.cfg.PythonBin,
		v.cfg.ScriptPath, asset.StoragePath, v.cfg.ExtractorPath, v.cfg.ClassifierPath)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		v.log.Error().Err(err).Msg("worker stderr pipe")
		return nil, domain.ErrWorkerExecution
	}

	if err := cmd.Start(); err != nil {
		v.log.Error().Err(err).Str("python", v.cfg.PythonBin).Msg("worker start failed")
		return nil, domain.ErrWorkerExecution
	}

	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		v.drainStderr(stderr, asset.StoredName)
	}()
	// The pipe EOFs when the process exits; Wait must not run before the
	// reader is finished with it.
	<-stderrDone

	if err := cmd.Wait(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			v.log.Error().
				Dur("timeout", v.cfg.Timeout).
				Str("asset", asset.StoredName).
				Msg("worker timed out")
		} else {
			v.log.Error().Err(err).Str("asset", asset.StoredName).Msg("worker exited with failure")
		}
		return nil, domain.ErrWorkerExecution
	}

	var out workerOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		outcome = "malformed"
		v.log.Error().
			Err(err).
			Str("asset", asset.StoredName).
			Str("stdout", truncate(stdout.String(), 512)).
			Msg("worker stdout is not valid JSON")
		return nil, domain.ErrMalformedOutput
	}

	if !out.Success {
		outcome = "worker_error"
		v.log.Warn().Str("asset", asset.StoredName).Str("error", out.Error).Msg("worker reported error")
		return nil, &domain.WorkerError{Message: out.Error}
	}

	if out.Result == nil || out.Result.Label == "" ||
		out.Result.Confidence < 0 || out.Result.Confidence > 1 {
		outcome = "malformed"
		v.log.Error().
			Str("asset", asset.StoredName).
			Str("stdout", truncate(stdout.String(), 512)).
			Msg("worker success payload lacks expected shape")
		return nil, domain.ErrMalformedOutput
	}

	outcome = "ok"
	v.log.Info().
		Str("asset", asset.StoredName).
		Str("label", out.Result.Label).
		Float64("confidence", out.Result.Confidence).
		Dur("elapsed", time.Since(start)).
		Msg("classification complete")

	return &domain.InferenceResult{
		Label:      out.Result.Label,
		Confidence: out.Result.Confidence,
	}, nil
}

func (v *Invoker) drainStderr(r io.Reader, asset string) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v.log.Debug().Str("asset", asset).Str("stream", "stderr").Msg(line)
	}
	if err := scanner.Err(); err != nil {
		// A line past the buffer cap stops the scanner. Keep consuming the
		// pipe anyway; a child blocked on a full stderr buffer never exits.
		v.log.Debug().Err(err).Str("asset", asset).Str("stream", "stderr").Msg("stderr truncated, discarding remainder")
		_, _ = io.Copy(io.Discard, r)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
