// Package types provides type definitions for structured data used throughout the skill-monitor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Listing represents a single scraped job posting as ingested from a raw corpus file
type Listing struct {
	Title          string  `json:"title"`
	Company        string  `json:"company"`
	Location       string  `json:"location"`
	Description    string  `json:"description"`
	ExperienceText string  `json:"experience_text,omitempty"`
	SalaryRaw      string  `json:"salary_raw,omitempty"`
	SalaryNumeric  float64 `json:"salary_numeric"`
	Source         string  `json:"source"`
	URL            string  `json:"url,omitempty"`
}

// Experience levels attached to listings and profiles
const (
	ExperienceSenior      = "Senior"
	ExperienceSemiSenior  = "Semi-Senior"
	ExperienceJunior      = "Junior"
	ExperienceUnspecified = "unspecified"
)

// ExtractedListing is a listing with its derived fields attached.
// TechnicalSkills and ManagementSkills are sets kept in dictionary order.
type ExtractedListing struct {
	Listing               Listing  `json:"listing"`
	NormalizedDescription string   `json:"normalized_description"`
	TechnicalSkills       []string `json:"technical_skills"`
	ManagementSkills      []string `json:"management_skills"`
	ExperienceLevel       string   `json:"experience_level"`
	Category              string   `json:"category"`
}

// AllSkills returns technical skills followed by management skills
func (e *ExtractedListing) AllSkills() []string {
	all := make([]string, 0, len(e.TechnicalSkills)+len(e.ManagementSkills))
	all = append(all, e.TechnicalSkills...)
	all = append(all, e.ManagementSkills...)
	return all
}
