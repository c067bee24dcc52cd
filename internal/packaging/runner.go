package packaging

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// CommandRunner abstracts build tool invocation so tests can intercept it.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner runs commands with stdout/stderr passed through to the operator.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	return nil
}
