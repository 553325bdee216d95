package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	fvupgrader "github.com/fvupgrader/fvupgrader/pkg"
)

// progressGit shows a spinner on stderr while the push runs.
type progressGit struct {
	fvupgrader.ReleaseGit
	out *os.File
}

// withProgress wraps g with a spinner when out is a terminal.
func withProgress(g fvupgrader.ReleaseGit, out io.Writer) fvupgrader.ReleaseGit {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return g
	}
	return &progressGit{ReleaseGit: g, out: f}
}

func (p *progressGit) Push(ctx context.Context, remote, tag string) error {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriterFile(p.out))
	s.Color("yellow") //nolint:errcheck
	s.Suffix = " Pushing to " + remote + "..."
	s.Start()
	defer s.Stop()
	return p.ReleaseGit.Push(ctx, remote, tag)
}
