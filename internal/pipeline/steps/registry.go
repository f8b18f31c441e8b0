// Package steps provides step definitions and dependency validation for the market pipeline.
package steps

import (
	"fmt"
	"sort"
)

// Step categories
const (
	CategoryIngestion  = "ingestion"
	CategoryExtraction = "extraction"
	CategoryMarket     = "market"
	CategoryAnalysis   = "analysis"
)

// Step names
const (
	LoadListings      = "load_listings"
	ExtractSkills     = "extract_skills"
	Aggregate         = "aggregate"
	BuildMatrix       = "build_matrix"
	SkillsBySeniority = "skills_by_seniority"
	Analyze           = "analyze"
	Snapshot          = "snapshot"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	// Order breaks ties between steps whose dependencies are satisfied at the same time
	Order int
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	LoadListings: {
		Name:         LoadListings,
		Category:     CategoryIngestion,
		Dependencies: []string{},
		Order:        1,
	},
	ExtractSkills: {
		Name:         ExtractSkills,
		Category:     CategoryExtraction,
		Dependencies: []string{LoadListings},
		Order:        2,
	},
	Aggregate: {
		Name:         Aggregate,
		Category:     CategoryMarket,
		Dependencies: []string{ExtractSkills},
		Order:        3,
	},
	BuildMatrix: {
		Name:         BuildMatrix,
		Category:     CategoryMarket,
		Dependencies: []string{Aggregate},
		Order:        4,
	},
	SkillsBySeniority: {
		Name:         SkillsBySeniority,
		Category:     CategoryMarket,
		Dependencies: []string{ExtractSkills},
		Order:        5,
	},
	Analyze: {
		Name:         Analyze,
		Category:     CategoryAnalysis,
		Dependencies: []string{Aggregate, ExtractSkills},
		Order:        6,
	},
	Snapshot: {
		Name:         Snapshot,
		Category:     CategoryMarket,
		Dependencies: []string{BuildMatrix, SkillsBySeniority, Analyze},
		Order:        7,
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks if all required dependencies for a step are completed
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}

	return nil
}

// GetAvailableSteps returns steps that can be executed (dependencies met), in execution order
func GetAvailableSteps(completed map[string]bool) []string {
	var available []string
	for stepName := range StepRegistry {
		if completed[stepName] {
			continue
		}
		if err := ValidateDependencies(completed, stepName); err != nil {
			continue
		}
		available = append(available, stepName)
	}
	sortByOrder(available)
	return available
}

// GetBlockedSteps returns steps that are blocked (dependencies not met), in execution order
func GetBlockedSteps(completed map[string]bool) []string {
	var blocked []string
	for stepName := range StepRegistry {
		if completed[stepName] {
			continue
		}
		if err := ValidateDependencies(completed, stepName); err != nil {
			blocked = append(blocked, stepName)
		}
	}
	sortByOrder(blocked)
	return blocked
}

// ExecutionOrder returns every step in an order that satisfies all dependencies
func ExecutionOrder() []string {
	completed := make(map[string]bool, len(StepRegistry))
	order := make([]string, 0, len(StepRegistry))
	for len(order) < len(StepRegistry) {
		next := GetAvailableSteps(completed)
		if len(next) == 0 {
			break
		}
		completed[next[0]] = true
		order = append(order, next[0])
	}
	return order
}

func sortByOrder(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return StepRegistry[names[i]].Order < StepRegistry[names[j]].Order
	})
}
