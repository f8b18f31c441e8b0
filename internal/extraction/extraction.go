// Package extraction derives skills, experience level and job category from job listings using
// the keyword dictionaries. Matching is plain case-insensitive substring lookup over the
// normalized description; there is no negation handling or semantic inference.
package extraction

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/skill-monitor/internal/dictionary"
	"github.com/jonathan/skill-monitor/internal/logging"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/types"
)

// Extractor tags listings with dictionary skills. It only reads its dictionary set, so one
// Extractor can serve concurrent callers.
type Extractor struct {
	set    *dictionary.Set
	logger *zap.Logger
}

// NewExtractor creates an extractor over set. A nil logger disables logging.
func NewExtractor(set *dictionary.Set, logger *zap.Logger) *Extractor {
	return &Extractor{set: set, logger: logging.OrNop(logger)}
}

// Extract derives the skill sets, experience level and category of one listing.
// The listing itself is copied unchanged into the result.
func (e *Extractor) Extract(listing types.Listing) types.ExtractedListing {
	normalized := parsing.NormalizeText(listing.Description)
	technical := MatchSkills(e.set.Technical, normalized)
	management := MatchSkills(e.set.Management, normalized)

	skills := make(map[string]bool, len(technical)+len(management))
	for _, s := range technical {
		skills[s] = true
	}
	for _, s := range management {
		skills[s] = true
	}

	return types.ExtractedListing{
		Listing:               listing,
		NormalizedDescription: normalized,
		TechnicalSkills:       technical,
		ManagementSkills:      management,
		ExperienceLevel:       ExperienceLevel(e.set.ExperienceLevels, parsing.FoldText(listing.Description)),
		Category:              Category(e.set.JobCategories, e.set.DefaultCategory, listing.Title, skills),
	}
}

// ExtractAll extracts every usable listing in corpus order. Malformed records are logged and
// skipped; the number skipped is returned alongside the results.
func (e *Extractor) ExtractAll(listings []types.Listing) ([]types.ExtractedListing, int) {
	extracted := make([]types.ExtractedListing, 0, len(listings))
	skipped := 0

	for i, listing := range listings {
		if err := CheckListing(i, listing); err != nil {
			skipped++
			e.logger.Warn("skipping malformed listing", zap.Int("index", i), zap.Error(err))
			continue
		}
		extracted = append(extracted, e.Extract(listing))
	}

	e.logger.Debug("skill extraction finished",
		zap.Int("listings", len(listings)),
		zap.Int("extracted", len(extracted)),
		zap.Int("skipped", skipped))

	return extracted, skipped
}

// CheckListing reports a *types.MalformedRecordError when a listing cannot take part in the
// analysis. An empty description is valid and simply yields no skills.
func CheckListing(index int, listing types.Listing) error {
	if strings.TrimSpace(listing.Title) == "" {
		return &types.MalformedRecordError{Index: index, Field: "title", Message: "title is empty"}
	}
	return nil
}

// MatchSkills returns the skills of d whose keyword variants occur in normalized text.
// Variants are tried in order and the first hit settles the skill. Results follow dictionary
// order and contain no duplicates.
func MatchSkills(d *dictionary.SkillDictionary, normalized string) []string {
	found := []string{}
	if normalized == "" {
		return found
	}

	d.Range(func(skill string, keywords []string) bool {
		for _, kw := range keywords {
			if strings.Contains(normalized, kw) {
				found = append(found, skill)
				break
			}
		}
		return true
	})
	return found
}

// ExperienceLevel returns the level of the first rule with a keyword in folded text,
// or types.ExperienceUnspecified
func ExperienceLevel(rules []dictionary.LevelRule, folded string) string {
	if folded == "" {
		return types.ExperienceUnspecified
	}
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(folded, kw) {
				return rule.Level
			}
		}
	}
	return types.ExperienceUnspecified
}

// Category returns the name of the first job-category rule matching the title and skills,
// or defaultCategory
func Category(rules []dictionary.CategoryRule, defaultCategory, title string, skills map[string]bool) string {
	for _, rule := range rules {
		if rule.Matches(title, skills) {
			return rule.Name
		}
	}
	return defaultCategory
}
