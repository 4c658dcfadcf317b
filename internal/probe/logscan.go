package probe

import (
	"context"
	"fmt"
	"regexp"

	"github.com/nxadm/tail"

	"github.com/jsamuelsen11/readycheck/internal/domain"
)

// logScanProbe reads a service's log file and fails when the error pattern
// matches. Some dependencies (notably startup crash loops) never expose a
// live endpoint to probe; their logs are the only health signal.
type logScanProbe struct {
	spec    domain.LogScanSpec
	pattern *regexp.Regexp
}

func newLogScan(spec domain.LogScanSpec) (*logScanProbe, error) {
	pattern, err := regexp.Compile(spec.ErrorPattern)
	if err != nil {
		return nil, fmt.Errorf("compiling error pattern %q: %w", spec.ErrorPattern, err)
	}
	return &logScanProbe{spec: spec, pattern: pattern}, nil
}

func (p *logScanProbe) Describe() string { return p.spec.Target() }
func (p *logScanProbe) Critical() bool   { return p.spec.Critical }

// Check reads the file once (no follow). With MaxLines > 0 only the
// trailing MaxLines lines are considered, so old resolved errors do not
// keep a recovered service unhealthy forever.
func (p *logScanProbe) Check(ctx context.Context) error {
	t, err := tail.TailFile(p.spec.Path, tail.Config{
		Follow:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer t.Cleanup()

	lines, err := p.collect(ctx, t)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if p.pattern.MatchString(line) {
			return fmt.Errorf("error pattern matched: %s", truncateLine(line))
		}
	}
	return nil
}

// collect drains the tailer, keeping a sliding window of the last MaxLines
// lines (all lines when MaxLines is zero).
func (p *logScanProbe) collect(ctx context.Context, t *tail.Tail) ([]string, error) {
	var lines []string
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case line, ok := <-t.Lines:
			if !ok {
				return lines, nil
			}
			if line.Err != nil {
				return nil, fmt.Errorf("reading log file: %w", line.Err)
			}
			lines = append(lines, line.Text)
			if p.spec.MaxLines > 0 && len(lines) > p.spec.MaxLines {
				lines = lines[1:]
			}
		}
	}
}

func truncateLine(line string) string {
	const maxLen = 200
	if len(line) > maxLen {
		return line[:maxLen] + "..."
	}
	return line
}
