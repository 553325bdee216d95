package fvupgrader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ReleaseGit is the version-control collaborator used by the orchestrator.
// Implementations report only success or failure; output is never interpreted.
type ReleaseGit interface {
	// IsCheckout reports whether the project directory is a git working tree.
	IsCheckout() bool
	// Add stages the given paths, relative to the project directory.
	Add(ctx context.Context, files ...string) error
	// Commit records the staged changes with message.
	Commit(ctx context.Context, message string) error
	// Tag creates an annotated tag.
	Tag(ctx context.Context, name, message string) error
	// Push pushes the current branch to remote, then tag if it is not empty.
	Push(ctx context.Context, remote, tag string) error
}

// ExecGit runs the git binary inside Dir.
type ExecGit struct {
	Dir    string
	Binary string
	Logger *slog.Logger
}

// NewExecGit returns an ExecGit for dir using the git found on PATH.
func NewExecGit(dir string) *ExecGit {
	return &ExecGit{Dir: dir, Binary: "git"}
}

// CheckGit verifies that git is available on the system.
func CheckGit() error {
	cmd := exec.Command("git", "--version")
	if err := cmd.Run(); err != nil {
		return wrapError(ErrCodeExternalCommand, "git is not available on the system", err)
	}
	return nil
}

// IsCheckout looks for the .git metadata entry. Worktrees and submodules use a .git file.
func (g *ExecGit) IsCheckout() bool {
	_, err := os.Stat(filepath.Join(g.Dir, ".git"))
	return err == nil
}

func (g *ExecGit) Add(ctx context.Context, files ...string) error {
	return g.run(ctx, append([]string{"add", "--"}, files...)...)
}

func (g *ExecGit) Commit(ctx context.Context, message string) error {
	return g.run(ctx, "commit", "-m", message)
}

func (g *ExecGit) Tag(ctx context.Context, name, message string) error {
	return g.run(ctx, "tag", "-a", name, "-m", message)
}

func (g *ExecGit) Push(ctx context.Context, remote, tag string) error {
	if err := g.run(ctx, "push", remote, "HEAD"); err != nil {
		return err
	}
	if tag == "" {
		return nil
	}
	return g.run(ctx, "push", remote, "refs/tags/"+tag)
}

func (g *ExecGit) run(ctx context.Context, args ...string) error {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = g.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("running git", "dir", g.Dir, "args", args)
	if err := cmd.Run(); err != nil {
		return wrapWithContext(ErrCodeExternalCommand,
			fmt.Sprintf("git %s failed, detail: %s", args[0], strings.TrimSpace(stderr.String())), err,
			map[string]any{"args": args, "dir": g.Dir})
	}
	return nil
}
