package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fvupgrader "github.com/fvupgrader/fvupgrader/pkg"
)

// TestMain triggers the CLI as a subprocess when GO_HELPER_PROCESS is set.
func TestMain(m *testing.M) {
	if os.Getenv("GO_HELPER_PROCESS") == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// runCLI runs the CLI in helper process mode with stdin and extra environment vars.
func runCLI(args []string, stdin string, extraEnv ...string) (string, error) {
	cmd := exec.Command(os.Args[0], args...)
	cmd.Env = append(os.Environ(), "GO_HELPER_PROCESS=1")
	cmd.Env = append(cmd.Env, extraEnv...)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

const pubspec = `name: demo
version: 1.2.3+45

flutter:
  uses-material-design: true
`

func newProject(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pubspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pubspec), 0644))
	return dir, path
}

// recordingGit is a checkout whose git commands are only recorded.
type recordingGit struct {
	calls []string
}

func (r *recordingGit) IsCheckout() bool { return true }

func (r *recordingGit) Add(_ context.Context, files ...string) error {
	r.calls = append(r.calls, "add "+strings.Join(files, " "))
	return nil
}

func (r *recordingGit) Commit(_ context.Context, message string) error {
	r.calls = append(r.calls, "commit "+message)
	return nil
}

func (r *recordingGit) Tag(_ context.Context, name, _ string) error {
	r.calls = append(r.calls, "tag "+name)
	return nil
}

func (r *recordingGit) Push(_ context.Context, remote, tag string) error {
	r.calls = append(r.calls, strings.TrimSpace("push "+remote+" "+tag))
	return nil
}

// runApp runs the command in-process with a recording git client.
func runApp(t *testing.T, stdin string, args ...string) (string, *recordingGit, error) {
	t.Helper()
	git := &recordingGit{}
	app := newApp(func(string, io.Writer) fvupgrader.ReleaseGit { return git })
	var out bytes.Buffer
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(context.Background(), append([]string{name}, args...))
	return out.String(), git, err
}

func TestCLIHelp(t *testing.T) {
	out, _ := runCLI([]string{"--help"}, "")
	assert.Contains(t, out, "--no-commit")
	assert.Contains(t, out, "pubspec.yaml")
}

func TestCLIVersionFlag(t *testing.T) {
	out, err := runCLI([]string{"--version"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "fvupgrader version "+Version)
}

func TestCLIMissingConfig(t *testing.T) {
	out, err := runCLI([]string{"--path", t.TempDir(), "--patch"}, "")
	require.Error(t, err)
	assert.Contains(t, out, "Error: [CONFIG_NOT_FOUND]")
}

func TestCLIFlagConflictExitsNonZero(t *testing.T) {
	dir, path := newProject(t)
	out, err := runCLI([]string{"--path", dir, "--major", "--minor"}, "")
	require.Error(t, err)
	assert.Contains(t, out, "Error: [FLAG_CONFLICT]")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, pubspec, string(data))
}

func TestCLIInteractiveOutsideGit(t *testing.T) {
	dir, path := newProject(t)
	out, err := runCLI([]string{"--path", dir}, "2\n")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Choose a new version:")
	assert.Contains(t, out, "New Version: 1.3.0+45")
	assert.Contains(t, out, "Not a git checkout; git steps skipped.")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, strings.Replace(pubspec, "1.2.3+45", "1.3.0+45", 1), string(data))
}

func TestCLIInvalidSelection(t *testing.T) {
	dir, _ := newProject(t)
	out, err := runCLI([]string{"--path", dir}, "4\n")
	require.Error(t, err)
	assert.Contains(t, out, "Error: [INVALID_SELECTION]")
}

func TestAppReleaseSteps(t *testing.T) {
	dir, _ := newProject(t)
	out, git, err := runApp(t, "", "--path", dir, "--major")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"add pubspec.yaml",
		"commit Bump version to 2.0.0+45",
		"tag v2.0.0+45",
		"push origin v2.0.0+45",
	}, git.calls)
	assert.Contains(t, out, "Version bump successful!")
	assert.Contains(t, out, "Bump Type:   major")
	assert.Contains(t, out, "Tag:         v2.0.0+45")
	assert.Contains(t, out, "Pushed:      true")
}

func TestAppSuppressionFlags(t *testing.T) {
	dir, _ := newProject(t)
	_, git, err := runApp(t, "", "--path", dir, "--patch", "--no-tag", "--no-push")
	require.NoError(t, err)
	assert.Equal(t, []string{"add pubspec.yaml", "commit Bump version to 1.2.4+45"}, git.calls)
}

func TestAppNoCommitRequiresNoTagAndNoPush(t *testing.T) {
	dir, path := newProject(t)
	_, git, err := runApp(t, "", "--path", dir, "--patch", "--no-commit")
	assert.True(t, fvupgrader.IsCode(err, fvupgrader.ErrCodeFlagConflict), "got %v", err)
	assert.Empty(t, git.calls)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, pubspec, string(data))
}

func TestAppExtraFiles(t *testing.T) {
	dir, _ := newProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte("# Changelog\n"), 0644))

	_, git, err := runApp(t, "", "--path", dir, "--minor", "--file", "*.md", "--no-push")
	require.NoError(t, err)
	assert.Equal(t, "add pubspec.yaml CHANGELOG.md", git.calls[0])
}

func TestAppDryRun(t *testing.T) {
	dir, path := newProject(t)
	out, git, err := runApp(t, "3\n", "--path", dir, "--dry-run")
	require.NoError(t, err)
	assert.Empty(t, git.calls)
	assert.Contains(t, out, "Dry run complete")
	assert.Contains(t, out, "New Version: 2.0.0+45")
	assert.Contains(t, out, "Files that would be committed:")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, pubspec, string(data))
}
