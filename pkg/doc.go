// Package fvupgrader provides a library for bumping the version of a project whose version is
// stored in pubspec.yaml as "version: major.minor.patch+build".
//
// It provides functionalities for:
//   - Extracting the version line from the version file and rewriting it in place, leaving every
//     other byte untouched.
//   - Computing the three candidate next versions, always in the order patch, minor, major. The
//     build number is never changed.
//   - Selecting a candidate by flag or by an interactive 1-based choice.
//   - Integrating with Git to stage the version file, commit it, create an annotated "v"-prefixed
//     tag and push the branch and tag, each step individually skippable.
//
// Errors are returned as *Error values carrying an ErrorCode such as ErrCodeConfigNotFound or
// ErrCodeFlagConflict. A failing git step leaves the rewritten version file in place.
//
// Usage Example:
//
//	meta, err := fvupgrader.Run(ctx, fvupgrader.Options{
//	    Dir:   "./app",
//	    Minor: true,
//	})
//	if err != nil {
//	    log.Fatalf("version bump failed: %v", err)
//	}
//	log.Printf("bumped %s -> %s", meta.OldVersion, meta.NewVersion)
package fvupgrader
