// Package main implements the fvupgrader CLI tool.
//
// The fvupgrader tool is a command-line interface that automates version bumping for projects
// whose version lives in pubspec.yaml as "version: major.minor.patch+build". It reads the current
// version, offers three candidates (patch, minor, major; the build number is kept), writes the
// chosen one back in place and, when the project directory is a git checkout, stages and commits
// the change, creates an annotated tag "v<version>" and pushes the current branch and the tag.
//
// Command Usage:
//
//	fvupgrader [flags]
//
// Flags:
//
//	--path:       Project directory containing pubspec.yaml. (Defaults to ".")
//	--major:      Select the major candidate (3) instead of prompting.
//	--minor:      Select the minor candidate (2) instead of prompting.
//	--patch:      Select the patch candidate (1) instead of prompting.
//	--no-commit:  Skip the commit. Must be combined with --no-tag and --no-push.
//	--no-tag:     Skip the release tag.
//	--no-push:    Skip pushing the branch and tag.
//	--file:       Glob of an extra file to commit with pubspec.yaml. May be repeated.
//	--dry-run:    Report the selection and the git steps without changing anything.
//	--log-level:  debug, info, warn or error. (Defaults to "warn")
//	--version:    Displays the version of the fvupgrader CLI tool and exits.
//
// Without --major, --minor or --patch the candidates are printed and one line is read from
// stdin; anything other than 1, 2 or 3 is an error.
//
// Examples:
//
//	# Choose interactively
//	fvupgrader
//
//	# Bump the minor version (e.g. 1.2.3+45 → 1.3.0+45)
//	fvupgrader --minor
//
//	# Bump a project elsewhere and keep everything local
//	fvupgrader --path ./app --patch --no-push
//
//	# Only rewrite pubspec.yaml
//	fvupgrader --major --no-commit --no-tag --no-push
//
// Per-project settings such as the commit message template or the remote are read from an
// optional .fvupgrader.yaml next to pubspec.yaml. See the "pkg" package for details.
package main
