// Package verify runs an external binary-format verifier over the outputs of
// one invocation and reports pass/fail per artifact. Verification is purely
// diagnostic: a failing artifact is reported, never fatal.
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Verifier validates one output artifact. scratchDir receives whatever
// scratch output the verifier produces; the caller removes it afterwards
// regardless of the result. A zero exit code means the artifact passed. A
// non-nil error means the verifier could not be run at all, which is also
// reported rather than propagated.
type Verifier interface {
	Verify(ctx context.Context, scratchDir, artifactPath, target string) (int, error)
}

// Result is the verification outcome for one output artifact.
type Result struct {
	Name     string
	Path     string
	ExitCode int
	Err      error
}

// Passed reports whether the artifact verified cleanly.
func (r Result) Passed() bool {
	return r.Err == nil && r.ExitCode == 0
}

// CommandVerifier invokes an external verifier program. The configured
// arguments are followed by the scratch directory, the artifact path, and the
// target version, in that order.
type CommandVerifier struct {
	program string
	args    []string
}

// NewCommandVerifier creates a CommandVerifier for the given program.
func NewCommandVerifier(program string, args ...string) *CommandVerifier {
	return &CommandVerifier{program: program, args: args}
}

// Verify implements Verifier.
func (v *CommandVerifier) Verify(ctx context.Context, scratchDir, artifactPath, target string) (int, error) {
	argv := make([]string, 0, len(v.args)+3)
	argv = append(argv, v.args...)
	argv = append(argv, scratchDir, artifactPath, target)

	cmd := exec.CommandContext(ctx, v.program, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("verify: running %s on %q: %w", v.program, artifactPath, err)
}
