package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rubentalstra/OpCore-Simplify/internal/logging"
)

// Output line conventions understood by ExecBuilder. Anything else is
// plain log output.
const (
	stepPrefix = "step:"
	biosPrefix = "bios:"
)

// ExecBuilder runs a user-configured external command as the build
// pipeline. The command receives the request as flags; its stdout is
// streamed line by line into the job event stream and the app log.
type ExecBuilder struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// Build implements Builder.
func (b *ExecBuilder) Build(ctx context.Context, req Request) (*Report, error) {
	if b.Command == "" {
		return nil, fmt.Errorf("no build command configured")
	}

	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	args := append([]string{}, b.Args...)
	if req.ConfigPlist != "" {
		args = append(args, "-config", req.ConfigPlist)
	}
	if req.EFIDir != "" {
		args = append(args, "-efi", req.EFIDir)
	}
	if req.MacOSVersion != "" {
		args = append(args, "-macos", req.MacOSVersion)
	}
	if req.SMBIOSModel != "" {
		args = append(args, "-smbios", req.SMBIOSModel)
	}

	cmd := exec.CommandContext(ctx, b.Command, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe stdout: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", b.Command, err)
	}

	progress := Progress(ctx)
	var requirements []string
	step := ""

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, stepPrefix):
			step = strings.TrimSpace(line[len(stepPrefix):])
			progress(step, "")
			logging.PipelineLog("info", "step %s", step)
		case strings.HasPrefix(lower, biosPrefix):
			requirements = append(requirements, strings.TrimSpace(line[len(biosPrefix):]))
		default:
			progress(step, line)
			logging.PipelineLog("info", "%s", line)
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return nil, fmt.Errorf("read build output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("build aborted: %w", ctx.Err())
		}
		// Non-zero exit is a failed build, not a runner error.
		if _, ok := err.(*exec.ExitError); ok {
			return &Report{Success: false, BIOSRequirements: requirements}, nil
		}
		return nil, fmt.Errorf("run %s: %w", b.Command, err)
	}

	return &Report{Success: true, BIOSRequirements: requirements}, nil
}
