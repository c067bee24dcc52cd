// Package preflight implements the checks that must pass before any remote
// operation is attempted. Checks are independent and side effect free; the
// first failure terminates the run.
package preflight

import (
	"fmt"
	"os/exec"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/errors"
)

// lookPath is swapped out in tests
var lookPath = exec.LookPath

// ToolChecker verifies that required executables are resolvable on PATH.
type ToolChecker struct {
	tools []string
}

// NewToolChecker creates a checker for the given executables.
func NewToolChecker(tools ...string) *ToolChecker {
	return &ToolChecker{tools: tools}
}

// Check resolves each required tool, failing on the first that is missing.
func (c *ToolChecker) Check() error {
	for _, tool := range c.tools {
		if _, err := lookPath(tool); err != nil {
			return fmt.Errorf("%w: %s", errors.ErrToolNotFound, tool)
		}
	}
	return nil
}
