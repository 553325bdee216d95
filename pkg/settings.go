package fvupgrader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is the optional per-project settings file.
const DefaultSettingsFile = ".fvupgrader.yaml"

// Settings holds per-project release settings.
type Settings struct {
	// CommitMessage is a text/template rendered with MessageData.
	CommitMessage string `yaml:"commit_message"`
	// TagMessage is the annotation of the release tag, rendered like CommitMessage.
	TagMessage string `yaml:"tag_message"`
	// Remote receives the pushed branch and tag.
	Remote string `yaml:"remote"`
	// Stage lists glob patterns of extra files committed with the version file.
	Stage []string `yaml:"stage,omitempty"`
}

// MessageData is passed to the commit and tag message templates.
type MessageData struct {
	Version string
	Tag     string
	Old     string
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		CommitMessage: "Bump version to {{.Version}}",
		TagMessage:    "Release {{.Tag}}",
		Remote:        "origin",
	}
}

// LoadSettings reads the settings file in dir, falling back to defaults when it is absent.
func LoadSettings(dir string) (Settings, error) {
	path := filepath.Join(dir, DefaultSettingsFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, wrapError(ErrCodeInvalidSettings, "failed to open settings file", err)
	}
	defer f.Close()

	s, err := ParseSettings(f)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Context = map[string]any{"path": path}
		}
		return Settings{}, err
	}
	return s, nil
}

// ParseSettings decodes YAML settings over the defaults. Unknown keys are rejected.
func ParseSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, wrapError(ErrCodeInvalidSettings, "failed to parse settings", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	if strings.TrimSpace(s.Remote) == "" {
		return newError(ErrCodeInvalidSettings, "remote must not be empty")
	}
	if _, err := parseMessageTemplate("commit_message", s.CommitMessage); err != nil {
		return err
	}
	if _, err := parseMessageTemplate("tag_message", s.TagMessage); err != nil {
		return err
	}
	if _, err := compilePatterns(s.Stage); err != nil {
		return wrapError(ErrCodeInvalidSettings, "invalid stage pattern", err)
	}
	return nil
}

func parseMessageTemplate(name, text string) (*template.Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newError(ErrCodeInvalidSettings, name+" must not be empty")
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, wrapError(ErrCodeInvalidSettings, "invalid "+name+" template", err)
	}
	return tmpl, nil
}

// RenderCommitMessage renders the commit message for a release.
func (s Settings) RenderCommitMessage(data MessageData) (string, error) {
	return renderMessage("commit_message", s.CommitMessage, data)
}

// RenderTagMessage renders the tag annotation for a release.
func (s Settings) RenderTagMessage(data MessageData) (string, error) {
	return renderMessage("tag_message", s.TagMessage, data)
}

func renderMessage(name, text string, data MessageData) (string, error) {
	tmpl, err := parseMessageTemplate(name, text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", wrapError(ErrCodeInvalidSettings, fmt.Sprintf("failed to render %s", name), err)
	}
	return buf.String(), nil
}
