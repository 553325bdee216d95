package fvupgrader

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// skipDirs are never walked when resolving stage patterns.
var skipDirs = map[string]bool{
	".git":         true,
	".dart_tool":   true,
	"build":        true,
	"node_modules": true,
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(filepath.ToSlash(p), '/')
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// ResolveStageFiles walks dir and returns the slash-separated relative paths of regular
// files matching any pattern, sorted, together with the patterns that matched nothing.
func ResolveStageFiles(dir string, patterns []string) (files, unmatched []string, err error) {
	if len(patterns) == 0 {
		return nil, nil, nil
	}
	globs, err := compilePatterns(patterns)
	if err != nil {
		return nil, nil, wrapError(ErrCodeInvalidSettings, "invalid file pattern", err)
	}

	hits := make([]bool, len(globs))
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		matched := false
		for i, g := range globs {
			if g.Match(rel) {
				hits[i] = true
				matched = true
			}
		}
		if matched {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, nil, wrapError(ErrCodeIO, "failed to walk project directory", err)
	}

	for i, hit := range hits {
		if !hit {
			unmatched = append(unmatched, patterns[i])
		}
	}
	sort.Strings(files)
	return files, unmatched, nil
}
