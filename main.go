// Package main implements a CLI tool to bump the version in pubspec.yaml,
// then commit, tag and push the change using git.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	fvupgrader "github.com/fvupgrader/fvupgrader/pkg"
	"github.com/fvupgrader/fvupgrader/pkg/logging"
)

const name = "fvupgrader"

// gitFactory builds the git client for a project directory.
type gitFactory func(dir string, stderr io.Writer) fvupgrader.ReleaseGit

func defaultGit(dir string, stderr io.Writer) fvupgrader.ReleaseGit {
	g := fvupgrader.NewExecGit(dir)
	g.Logger = slog.Default()
	return withProgress(g, stderr)
}

func newApp(newGit gitFactory) *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "bump the version in pubspec.yaml and release it with git",
		Version: Version,
		UsageText: `fvupgrader [options]

Reads "version: M.m.p+b" from pubspec.yaml, offers the next patch, minor and major
versions, writes the chosen one back and, inside a git checkout, commits the change,
tags it as v<version> and pushes the branch and tag.

Examples:
  fvupgrader
  fvupgrader --minor
  fvupgrader --path ./app --patch --no-push
  fvupgrader --major --file CHANGELOG.md --file 'ios/**/Info.plist'`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Usage:   "project directory containing pubspec.yaml",
				Value:   ".",
				Sources: cli.EnvVars("FVUPGRADER_PATH"),
			},
			&cli.BoolFlag{Name: "major", Usage: "bump the major version (candidate 3)"},
			&cli.BoolFlag{Name: "minor", Usage: "bump the minor version (candidate 2)"},
			&cli.BoolFlag{Name: "patch", Usage: "bump the patch version (candidate 1)"},
			&cli.BoolFlag{Name: "no-commit", Usage: "do not commit; requires --no-tag and --no-push"},
			&cli.BoolFlag{Name: "no-tag", Usage: "do not create the release tag"},
			&cli.BoolFlag{Name: "no-push", Usage: "do not push the branch and tag"},
			&cli.StringSliceFlag{
				Name:  "file",
				Usage: "glob of extra files to commit with pubspec.yaml, relative to --path. May be repeated.",
			},
			&cli.BoolFlag{Name: "dry-run", Usage: "show what would happen without modifying files or the git repository"},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("FVUPGRADER_LOG_LEVEL", "LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, Version, cmd.String("log-level"))
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return release(ctx, cmd, newGit)
		},
	}
}

func release(ctx context.Context, cmd *cli.Command, newGit gitFactory) error {
	dir := cmd.String("path")
	opts := fvupgrader.Options{
		Dir:      dir,
		Major:    cmd.Bool("major"),
		Minor:    cmd.Bool("minor"),
		Patch:    cmd.Bool("patch"),
		NoCommit: cmd.Bool("no-commit"),
		NoTag:    cmd.Bool("no-tag"),
		NoPush:   cmd.Bool("no-push"),
		DryRun:   cmd.Bool("dry-run"),
		Files:    cmd.StringSlice("file"),
		Prompter: fvupgrader.NewLinePrompter(cmd.Reader, cmd.Writer),
		Logger:   slog.Default(),
	}
	// Reject conflicting flags before the git client is even built.
	if err := opts.Validate(); err != nil {
		return err
	}
	opts.Git = newGit(dir, cmd.ErrWriter)

	meta, err := fvupgrader.Run(ctx, opts)
	if err != nil {
		return err
	}
	printSummary(cmd.Writer, meta)
	return nil
}

func printSummary(w io.Writer, meta fvupgrader.ReleaseMeta) {
	if meta.DryRun {
		fmt.Fprintln(w, "Dry run complete — no files were modified.")
	} else {
		fmt.Fprintln(w, "Version bump successful!")
	}
	fmt.Fprintf(w, "Old Version: %s\n", meta.OldVersion)
	fmt.Fprintf(w, "New Version: %s\n", meta.NewVersion)
	fmt.Fprintf(w, "Bump Type:   %s\n", meta.BumpType)

	if len(meta.UpdatedFiles) > 0 {
		if meta.DryRun {
			fmt.Fprintln(w, "Files that would be updated:")
		} else {
			fmt.Fprintln(w, "Files updated:")
		}
		for _, f := range meta.UpdatedFiles {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}

	if !meta.Checkout {
		fmt.Fprintln(w, "Not a git checkout; git steps skipped.")
		return
	}
	if meta.DryRun {
		if len(meta.StagedFiles) > 0 {
			fmt.Fprintln(w, "Files that would be committed:")
			for _, f := range meta.StagedFiles {
				fmt.Fprintf(w, "  %s\n", f)
			}
		}
		return
	}
	fmt.Fprintf(w, "Committed:   %t\n", meta.Committed)
	if meta.Tagged {
		fmt.Fprintf(w, "Tag:         %s\n", meta.Tag)
	}
	fmt.Fprintf(w, "Pushed:      %t\n", meta.Pushed)
}

func main() {
	if err := newApp(defaultGit).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
