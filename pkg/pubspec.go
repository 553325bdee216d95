package fvupgrader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
)

// DefaultVersionFile is the name of the file holding the project version.
const DefaultVersionFile = "pubspec.yaml"

// versionLineRe matches the version line. The first group is the version string.
var versionLineRe = regexp.MustCompile(`version: (\d+\.\d+\.\d+\+\d+)`)

// ExtractVersion returns the version string of the first version line in content.
func ExtractVersion(content []byte) (string, error) {
	m := versionLineRe.FindSubmatch(content)
	if m == nil {
		return "", newError(ErrCodeVersionNotFound, "no line matching \"version: M.m.p+b\" found")
	}
	return string(m[1]), nil
}

// ReadVersion reads the file at path and parses its version.
func ReadVersion(path string) (Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Version{}, wrapWithContext(ErrCodeConfigNotFound, "failed to read version file", err,
			map[string]any{"path": path})
	}
	raw, err := ExtractVersion(data)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Context = map[string]any{"path": path}
		}
		return Version{}, err
	}
	v, err := ParseVersion(raw)
	if err != nil {
		return Version{}, wrapError(ErrCodeVersionNotFound, "failed to parse version "+raw, err)
	}
	return v, nil
}

// ReplaceVersion substitutes newVersion into the first version line of content.
// Everything outside the matched line fragment is returned unchanged.
func ReplaceVersion(content []byte, newVersion string) ([]byte, error) {
	loc := versionLineRe.FindSubmatchIndex(content)
	if loc == nil {
		return nil, newError(ErrCodeVersionNotFound, "no line matching \"version: M.m.p+b\" found")
	}

	var buf bytes.Buffer
	buf.Grow(len(content) + len(newVersion))
	buf.Write(content[:loc[2]])
	buf.WriteString(newVersion)
	buf.Write(content[loc[3]:])
	return buf.Bytes(), nil
}

// WriteVersion rewrites the version line of the file at path in place.
func WriteVersion(path, newVersion string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapWithContext(ErrCodeConfigNotFound, "failed to stat version file", err,
			map[string]any{"path": path})
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return wrapWithContext(ErrCodeConfigNotFound, "failed to read version file", err,
			map[string]any{"path": path})
	}

	updated, err := ReplaceVersion(data, newVersion)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return wrapError(ErrCodeIO, fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
