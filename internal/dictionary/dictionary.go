// Package dictionary provides the static, data-driven rule tables used by skill extraction
// and market classification: skill keyword dictionaries, experience-level rules, job-category
// rules, skill category groups, role clusters and objective paths.
package dictionary

import (
	"fmt"
	"strings"
)

// Entry maps one canonical skill name to its ordered keyword variants
type Entry struct {
	Skill    string   `yaml:"skill" json:"skill"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// SkillDictionary is an ordered, immutable set of dictionary entries.
// It is safe to share across goroutines once constructed.
type SkillDictionary struct {
	entries []Entry
	index   map[string]int
}

// NewSkillDictionary builds a dictionary from entries. Skill names must be unique and every
// entry needs at least one keyword. Keywords are lowercased; surrounding spaces are kept
// because some variants (e.g. "r ") rely on them.
func NewSkillDictionary(entries []Entry) (*SkillDictionary, error) {
	d := &SkillDictionary{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		name := strings.TrimSpace(e.Skill)
		if name == "" {
			return nil, fmt.Errorf("dictionary entry %d has no skill name", i)
		}
		if _, exists := d.index[name]; exists {
			return nil, fmt.Errorf("duplicate skill %q in dictionary", name)
		}

		keywords := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			if strings.TrimSpace(kw) == "" {
				continue
			}
			keywords = append(keywords, strings.ToLower(kw))
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("skill %q has no keywords", name)
		}

		d.index[name] = len(d.entries)
		d.entries = append(d.entries, Entry{Skill: name, Keywords: keywords})
	}

	return d, nil
}

// Len returns the number of skills in the dictionary
func (d *SkillDictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Skills returns the canonical skill names in dictionary order
func (d *SkillDictionary) Skills() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.Skill
	}
	return names
}

// Entries returns a copy of the dictionary entries in order
func (d *SkillDictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, len(d.entries))
	for i, e := range d.entries {
		out[i] = Entry{Skill: e.Skill, Keywords: append([]string(nil), e.Keywords...)}
	}
	return out
}

// Keywords returns the keyword variants of a skill, or nil when the skill is unknown
func (d *SkillDictionary) Keywords(skill string) []string {
	if d == nil {
		return nil
	}
	idx, ok := d.index[skill]
	if !ok {
		return nil
	}
	return append([]string(nil), d.entries[idx].Keywords...)
}

// Contains reports whether skill is a canonical name of the dictionary
func (d *SkillDictionary) Contains(skill string) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[skill]
	return ok
}

// Range calls fn for each entry in dictionary order until fn returns false.
// The keyword slice must not be modified.
func (d *SkillDictionary) Range(fn func(skill string, keywords []string) bool) {
	if d == nil {
		return
	}
	for _, e := range d.entries {
		if !fn(e.Skill, e.Keywords) {
			return
		}
	}
}
