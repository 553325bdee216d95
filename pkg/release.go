package fvupgrader

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
)

// Options configures a single release run.
type Options struct {
	// Dir is the project directory. Empty means the current directory.
	Dir string
	// VersionFile is the version file name relative to Dir. Empty means DefaultVersionFile.
	VersionFile string

	// Major, Minor and Patch select a candidate without prompting. At most one may be set.
	Major bool
	Minor bool
	Patch bool

	NoCommit bool
	NoTag    bool
	NoPush   bool

	// DryRun computes the release without writing the version file or running git.
	DryRun bool
	// Files lists glob patterns of extra files staged with the version file.
	Files []string

	// Settings overrides the settings file in Dir when set.
	Settings *Settings
	// Git overrides the git client. Nil means NewExecGit(Dir).
	Git ReleaseGit
	// Prompter is asked for a selection when no bump flag is set.
	Prompter Prompter
	Logger   *slog.Logger
}

// ReleaseMeta holds metadata about the release run.
type ReleaseMeta struct {
	OldVersion   string   // The version before bumping.
	NewVersion   string   // The selected candidate.
	BumpType     BumpType // Rank of the selected candidate.
	Tag          string   // Tag name for the new version.
	Checkout     bool     // Whether Dir is a git working tree.
	Committed    bool
	Tagged       bool
	Pushed       bool
	UpdatedFiles []string // Files written, or that would be written in a dry run.
	StagedFiles  []string // Files staged for the commit, or that would be.
	DryRun       bool
}

// Validate rejects contradictory options. It runs before anything is read or written.
func (o Options) Validate() error {
	selected := 0
	for _, set := range []bool{o.Major, o.Minor, o.Patch} {
		if set {
			selected++
		}
	}
	if selected > 1 {
		return newError(ErrCodeFlagConflict, "only one of --major, --minor and --patch may be given")
	}
	if o.NoCommit && (!o.NoTag || !o.NoPush) {
		return &Error{
			Code:    ErrCodeFlagConflict,
			Message: "--no-commit requires --no-tag and --no-push; a tag or push without a commit records no version bump",
			Context: map[string]any{"no_tag": o.NoTag, "no_push": o.NoPush},
		}
	}
	if _, err := compilePatterns(o.Files); err != nil {
		return wrapError(ErrCodeInvalidSettings, "invalid file pattern", err)
	}
	return nil
}

// Bump returns the rank requested by the selection flags, or BumpNone.
func (o Options) Bump() BumpType {
	switch {
	case o.Major:
		return BumpMajor
	case o.Minor:
		return BumpMinor
	case o.Patch:
		return BumpPatch
	default:
		return BumpNone
	}
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.VersionFile == "" {
		o.VersionFile = DefaultVersionFile
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Git == nil {
		g := NewExecGit(o.Dir)
		g.Logger = o.Logger
		o.Git = g
	}
	return o
}

// Run reads the current version, selects a candidate, writes it and, when Dir is a git
// checkout, commits, tags and pushes as permitted by the options.
//
// A failing git step aborts the remaining steps. The version file is not restored.
func Run(ctx context.Context, opts Options) (ReleaseMeta, error) {
	var meta ReleaseMeta

	// 1. Reject conflicting options before touching anything.
	if err := opts.Validate(); err != nil {
		return meta, err
	}
	opts = opts.withDefaults()
	log := opts.Logger.With("dir", opts.Dir)
	meta.DryRun = opts.DryRun

	settings, err := resolveSettings(opts)
	if err != nil {
		return meta, err
	}

	// 2. Read the current version.
	versionPath := filepath.Join(opts.Dir, opts.VersionFile)
	current, err := ReadVersion(versionPath)
	if err != nil {
		return meta, err
	}
	meta.OldVersion = current.String()
	log.Debug("version read", "file", versionPath, "version", meta.OldVersion)

	// 3. Select a candidate.
	next, bump, err := selectCandidate(current, opts)
	if err != nil {
		return meta, err
	}
	meta.NewVersion = next.String()
	meta.BumpType = bump
	meta.Tag = next.Tag()
	log.Debug("candidate selected", "bump", bump.String(), "version", meta.NewVersion)

	stage, err := stageFiles(opts, settings, log)
	if err != nil {
		return meta, err
	}

	if opts.DryRun {
		meta.UpdatedFiles = []string{versionPath}
		meta.Checkout = opts.Git.IsCheckout()
		if meta.Checkout && !opts.NoCommit {
			meta.StagedFiles = stage
		}
		return meta, nil
	}

	// 4. Write the new version.
	if err := WriteVersion(versionPath, meta.NewVersion); err != nil {
		return meta, err
	}
	meta.UpdatedFiles = []string{versionPath}
	log.Info("version written", "file", versionPath, "old", meta.OldVersion, "new", meta.NewVersion)

	// 5. Git steps, only inside a checkout.
	meta.Checkout = opts.Git.IsCheckout()
	if !meta.Checkout {
		log.Debug("not a git checkout, skipping git steps")
		return meta, nil
	}

	data := MessageData{Version: meta.NewVersion, Tag: meta.Tag, Old: meta.OldVersion}

	if !opts.NoCommit {
		msg, err := settings.RenderCommitMessage(data)
		if err != nil {
			return meta, err
		}
		if err := opts.Git.Add(ctx, stage...); err != nil {
			return meta, err
		}
		meta.StagedFiles = stage
		if err := opts.Git.Commit(ctx, msg); err != nil {
			return meta, err
		}
		meta.Committed = true
		log.Info("committed", "message", msg, "files", stage)
	}

	pushTag := ""
	if !opts.NoTag {
		msg, err := settings.RenderTagMessage(data)
		if err != nil {
			return meta, err
		}
		if err := opts.Git.Tag(ctx, meta.Tag, msg); err != nil {
			return meta, err
		}
		meta.Tagged = true
		pushTag = meta.Tag
		log.Info("tagged", "tag", meta.Tag)
	}

	if !opts.NoPush {
		if err := opts.Git.Push(ctx, settings.Remote, pushTag); err != nil {
			return meta, err
		}
		meta.Pushed = true
		log.Info("pushed", "remote", settings.Remote, "tag", pushTag)
	}

	return meta, nil
}

// DryRun reports what Run would do for opts without writing files or running git.
func DryRun(ctx context.Context, opts Options) (ReleaseMeta, error) {
	opts.DryRun = true
	return Run(ctx, opts)
}

func resolveSettings(opts Options) (Settings, error) {
	if opts.Settings != nil {
		if err := opts.Settings.validate(); err != nil {
			return Settings{}, err
		}
		return *opts.Settings, nil
	}
	return LoadSettings(opts.Dir)
}

func selectCandidate(current Version, opts Options) (Version, BumpType, error) {
	candidates := current.Candidates()

	index := opts.Bump().Rank()
	if index == 0 {
		if opts.Prompter == nil {
			return Version{}, BumpNone, newError(ErrCodeInvalidSelection, "no bump flag given and no prompt available")
		}
		var err error
		if index, err = opts.Prompter.Choose(current, candidates); err != nil {
			return Version{}, BumpNone, err
		}
	}

	next, err := SelectCandidate(candidates, index)
	if err != nil {
		return Version{}, BumpNone, err
	}
	if err := validateCandidate(next); err != nil {
		return Version{}, BumpNone, err
	}
	return next, BumpType(index), nil
}

// stageFiles returns the version file followed by the extra files matched by the patterns.
func stageFiles(opts Options, settings Settings, log *slog.Logger) ([]string, error) {
	patterns := append(slices.Clone(settings.Stage), opts.Files...)
	extra, unmatched, err := ResolveStageFiles(opts.Dir, patterns)
	if err != nil {
		return nil, err
	}
	for _, p := range unmatched {
		log.Warn("file pattern matched nothing", "pattern", p)
	}

	files := []string{filepath.ToSlash(opts.VersionFile)}
	for _, f := range extra {
		if !slices.Contains(files, f) {
			files = append(files, f)
		}
	}
	return files, nil
}
