package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/expr-lang/expr/vm"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// maxCaptureBytes caps captured stdout/stderr per stream. Health check
// commands print a line or two; anything past the cap is noise.
const maxCaptureBytes = 64 << 10

// commandEnv is the sample environment command success predicates compile
// against.
func commandEnv(exitCode int, stdout, stderr string) map[string]any {
	return map[string]any{
		"exit_code": exitCode,
		"stdout":    stdout,
		"stderr":    stderr,
	}
}

// commandProbe runs a local health check command (e.g. pg_isready) and
// judges success by exit code or a configured predicate over the output.
type commandProbe struct {
	spec      domain.CommandSpec
	predicate *vm.Program // nil means exit code zero is success
}

func newCommand(spec domain.CommandSpec) (*commandProbe, error) {
	p := &commandProbe{spec: spec}

	if spec.SuccessPredicate != "" {
		program, err := compilePredicate(spec.SuccessPredicate, commandEnv(0, "", ""))
		if err != nil {
			return nil, err
		}
		p.predicate = program
	}

	return p, nil
}

func (p *commandProbe) Describe() string { return p.spec.Target() }
func (p *commandProbe) Critical() bool   { return p.spec.Critical }

func (p *commandProbe) Check(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, p.spec.Command, p.spec.Args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &capWriter{buf: &stdout}
	cmd.Stderr = &capWriter{buf: &stderr}

	runErr := cmd.Run()

	// A killed process reports "signal: killed"; surface the deadline
	// instead so the attempt is classified as a timeout.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	exitCode, err := exitCodeOf(runErr)
	if err != nil {
		return err
	}

	if p.predicate != nil {
		ok, evalErr := evalPredicate(p.predicate, commandEnv(exitCode, stdout.String(), stderr.String()))
		if evalErr != nil {
			return evalErr
		}
		if !ok {
			return fmt.Errorf("success predicate not satisfied (exit %d)", exitCode)
		}
		return nil
	}

	if exitCode != 0 {
		return fmt.Errorf("exit %d%s", exitCode, outputSnippet(&stderr, &stdout))
	}
	return nil
}

// exitCodeOf maps the exec error into an exit code. A command that could
// not start at all (not found, not executable) has no exit code and is a
// probe failure in its own right.
func exitCodeOf(runErr error) (int, error) {
	if runErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("running command: %w", runErr)
}

// outputSnippet picks a short diagnostic line from the command output,
// preferring stderr.
func outputSnippet(streams ...*bytes.Buffer) string {
	for _, s := range streams {
		text := strings.TrimSpace(s.String())
		if text == "" {
			continue
		}
		if line, _, found := strings.Cut(text, "\n"); found {
			text = line
		}
		const maxSnippet = 200
		if len(text) > maxSnippet {
			text = text[:maxSnippet]
		}
		return ": " + text
	}
	return ""
}

// capWriter discards everything past maxCaptureBytes.
type capWriter struct {
	buf *bytes.Buffer
}

func (w *capWriter) Write(p []byte) (int, error) {
	if remaining := maxCaptureBytes - w.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			w.buf.Write(p[:remaining])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}
