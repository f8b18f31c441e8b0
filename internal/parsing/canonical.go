package parsing

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jonathan/skill-monitor/internal/dictionary"
)

// Canonicalizer maps free-form skill names declared by users onto the canonical names used
// by the market tables, so that "power bi", "PowerBI" and "Power BI" compare equal.
type Canonicalizer struct {
	names    map[string]string
	variants map[string]string
}

// NewCanonicalizer builds a canonicalizer from a dictionary set. Canonical names from the
// technical and management dictionaries take precedence, followed by skill names referenced in
// category groups, clusters and objective paths. Keyword variants resolve to the first entry
// that declares them.
func NewCanonicalizer(set *dictionary.Set) *Canonicalizer {
	c := &Canonicalizer{
		names:    make(map[string]string),
		variants: make(map[string]string),
	}
	if set == nil {
		return c
	}

	for _, d := range []*dictionary.SkillDictionary{set.Technical, set.Management} {
		for _, e := range d.Entries() {
			c.addName(e.Skill)
		}
	}
	for _, g := range set.SkillCategories {
		for _, s := range g.Skills {
			c.addName(s)
		}
	}
	for _, cl := range set.Clusters {
		for _, s := range cl.Skills {
			c.addName(s)
		}
	}
	for _, p := range set.ObjectivePaths {
		for _, s := range p.Skills {
			c.addName(s)
		}
	}

	for _, d := range []*dictionary.SkillDictionary{set.Technical, set.Management} {
		for _, e := range d.Entries() {
			for _, kw := range e.Keywords {
				key := foldKey(kw)
				if key == "" {
					continue
				}
				if _, exists := c.variants[key]; !exists {
					c.variants[key] = e.Skill
				}
			}
		}
	}

	return c
}

func (c *Canonicalizer) addName(name string) {
	key := foldKey(name)
	if key == "" {
		return
	}
	if _, exists := c.names[key]; !exists {
		c.names[key] = strings.TrimSpace(name)
	}
}

// Canonical returns the canonical name for skill. Unknown skills are returned trimmed with
// inner whitespace collapsed; blank input yields "".
func (c *Canonicalizer) Canonical(skill string) string {
	trimmed := collapseSpaces(skill)
	if trimmed == "" {
		return ""
	}
	if c == nil {
		return trimmed
	}

	key := foldKey(trimmed)
	if canonical, ok := c.names[key]; ok {
		return canonical
	}
	if canonical, ok := c.variants[key]; ok {
		return canonical
	}
	return trimmed
}

// CanonicalizeAll canonicalizes skills, dropping blanks and duplicates while keeping the order
// of first occurrence
func (c *Canonicalizer) CanonicalizeAll(skills []string) []string {
	if len(skills) == 0 {
		return []string{}
	}

	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		canonical := c.Canonical(s)
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	return out
}

// foldKey is the comparison key: case-folded with whitespace collapsed
func foldKey(s string) string {
	return collapseSpaces(cases.Fold().String(s))
}
