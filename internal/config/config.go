// Package config defines the optional wiki configuration schema and its
// loaders. A config controls page ordering (flat or hierarchical) and may
// override the project title and language; everything else about the build is
// derived from the input tree.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/wikibuilder/internal/logfields"
)

// Config is the optional page-ordering and metadata configuration.
// Sections and Pages are mutually exclusive shapes: Sections wins when both
// are present, matching the original single-pass resolution order.
type Config struct {
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Lang     string    `json:"lang,omitempty" yaml:"lang,omitempty"`
	Sections []Section `json:"sections,omitempty" yaml:"sections,omitempty"`
	Pages    []PageRef `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Section is one hierarchical grouping entry: a title, the page references it
// claims, and nested subsections of the same shape.
type Section struct {
	Title       string    `json:"title" yaml:"title"`
	Pages       []PageRef `json:"pages,omitempty" yaml:"pages,omitempty"`
	Subsections []Section `json:"subsections,omitempty" yaml:"subsections,omitempty"`
}

// PageRef references a source document either as a bare filename string or as
// an object with an optional display title override.
type PageRef struct {
	File  string `json:"file" yaml:"file"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// UnmarshalJSON accepts both `"page.md"` and `{"file": "page.md", "title": "..."}`.
func (r *PageRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.File = s
		r.Title = ""
		return nil
	}
	type alias PageRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = PageRef(a)
	return nil
}

// UnmarshalYAML accepts the same two shapes as UnmarshalJSON.
func (r *PageRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		r.File = value.Value
		r.Title = ""
		return nil
	}
	type alias PageRef
	var a alias
	if err := value.Decode(&a); err != nil {
		return err
	}
	*r = PageRef(a)
	return nil
}

// DefaultSectionTitle is applied to config sections missing a title.
const DefaultSectionTitle = "Untitled"

// Normalize applies schema defaults in place.
func (c *Config) Normalize() {
	normalizeSections(c.Sections)
}

func normalizeSections(sections []Section) {
	for i := range sections {
		if sections[i].Title == "" {
			sections[i].Title = DefaultSectionTitle
		}
		normalizeSections(sections[i].Subsections)
	}
}

// IsHierarchical reports whether the config carries a section tree.
func (c *Config) IsHierarchical() bool { return len(c.Sections) > 0 }

// Load reads and parses a config file. The format is chosen by extension:
// .yaml/.yml parse as YAML, everything else as JSON. Environment variables in
// the raw content are expanded before parsing, after an optional .env file has
// been loaded.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; absence is fine.
	if name, err := loadEnvFile(); err == nil {
		slog.Debug("environment variables loaded", logfields.File(name))
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigMalformed, configPath, err)
		}
	default:
		if err := json.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigMalformed, configPath, err)
		}
	}

	cfg.Normalize()
	return &cfg, nil
}

// defaultConfigNames are tried in order by Discover.
var defaultConfigNames = []string{"wiki.json", "wiki.yaml", "wiki.yml"}

// Discover returns the path of a default-named config file at the input root,
// or the empty string when none exists.
func Discover(inputDir string) string {
	for _, name := range defaultConfigNames {
		candidate := filepath.Join(inputDir, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
