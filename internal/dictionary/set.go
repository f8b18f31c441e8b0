package dictionary

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/skill-monitor/internal/types"
)

//go:embed default.yaml
var defaultYAML []byte

// Set bundles every rule table used during one pipeline run.
// A Set is built once and only read afterwards.
type Set struct {
	Technical        *SkillDictionary
	Management       *SkillDictionary
	ExperienceLevels []LevelRule
	JobCategories    []CategoryRule
	DefaultCategory  string
	SkillCategories  []SkillGroup
	Clusters         []Cluster
	ObjectivePaths   []ObjectivePath
}

// file mirrors the YAML layout of a dictionary file
type file struct {
	Technical        []Entry         `yaml:"technical"`
	Management       []Entry         `yaml:"management"`
	ExperienceLevels []LevelRule     `yaml:"experience_levels"`
	JobCategories    []CategoryRule  `yaml:"job_categories"`
	DefaultCategory  string          `yaml:"default_category"`
	SkillCategories  []SkillGroup    `yaml:"skill_categories"`
	Clusters         []Cluster       `yaml:"clusters"`
	ObjectivePaths   []ObjectivePath `yaml:"objective_paths"`
}

// Default returns the dictionaries embedded in the binary
func Default() (*Set, error) {
	set, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded dictionary: %w", err)
	}
	return set, nil
}

// LoadFile reads a dictionary YAML file. A missing file is reported as *types.MissingInputError.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &types.MissingInputError{Resource: "dictionary", ID: path, Cause: err}
		}
		return nil, fmt.Errorf("failed to read dictionary file %s: %w", path, err)
	}

	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid dictionary file %s: %w", path, err)
	}
	return set, nil
}

// Load returns the dictionary at path, or the embedded default when path is empty
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse builds a Set from YAML content
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary YAML: %w", err)
	}

	technical, err := NewSkillDictionary(f.Technical)
	if err != nil {
		return nil, fmt.Errorf("technical dictionary: %w", err)
	}
	management, err := NewSkillDictionary(f.Management)
	if err != nil {
		return nil, fmt.Errorf("management dictionary: %w", err)
	}

	if err := validateLevelRules(f.ExperienceLevels); err != nil {
		return nil, err
	}
	levels := make([]LevelRule, len(f.ExperienceLevels))
	for i, r := range f.ExperienceLevels {
		levels[i] = LevelRule{Level: r.Level, Keywords: lowerAll(r.Keywords)}
	}

	defaultCategory := f.DefaultCategory
	if defaultCategory == "" {
		defaultCategory = "Otros"
	}

	return &Set{
		Technical:        technical,
		Management:       management,
		ExperienceLevels: levels,
		JobCategories:    f.JobCategories,
		DefaultCategory:  defaultCategory,
		SkillCategories:  f.SkillCategories,
		Clusters:         f.Clusters,
		ObjectivePaths:   f.ObjectivePaths,
	}, nil
}

// CanonicalSkills returns every canonical skill name known to the extraction dictionaries,
// technical first, in dictionary order
func (s *Set) CanonicalSkills() []string {
	names := s.Technical.Skills()
	return append(names, s.Management.Skills()...)
}
