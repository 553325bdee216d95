package fvupgrader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Prompter asks the user to pick one of the candidates and returns the 1-based index typed.
// Range checking is left to SelectCandidate.
type Prompter interface {
	Choose(current Version, candidates [3]Version) (int, error)
}

// LinePrompter renders the candidates as a table on Out and reads one line from In.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

// NewLinePrompter returns a LinePrompter reading from in and writing to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{In: in, Out: out}
}

// Choose prints the current version and the numbered candidates, then blocks for a selection.
func (p *LinePrompter) Choose(current Version, candidates [3]Version) (int, error) {
	fmt.Fprintf(p.Out, "Current version: %s\n", current)
	fmt.Fprintln(p.Out, "Available next versions:")

	t := table.NewWriter()
	t.SetOutputMirror(p.Out)
	t.AppendHeader(table.Row{"#", "Bump", "Version", "Tag"})
	for i, c := range candidates {
		t.AppendRow(table.Row{i + 1, BumpType(i + 1).String(), c.String(), c.Tag()})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	fmt.Fprint(p.Out, "Choose a new version: ")
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, wrapError(ErrCodeInvalidSelection, "failed to read selection", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, newError(ErrCodeInvalidSelection, "no selection entered")
	}
	return ParseSelection(line)
}

// StaticPrompter always answers with the same index.
type StaticPrompter int

func (s StaticPrompter) Choose(Version, [3]Version) (int, error) {
	return int(s), nil
}
