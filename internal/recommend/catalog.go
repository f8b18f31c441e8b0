package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jonathan/skill-monitor/internal/types"
)

// legacyCatalog is the resources.json layout with free and paid course lists
type legacyCatalog struct {
	Courses struct {
		Free []legacyCourse `json:"gratuitos"`
		Paid []legacyCourse `json:"de_pago"`
	} `json:"cursos_recomendados"`
}

type legacyCourse struct {
	Name     string   `json:"nombre"`
	Platform string   `json:"plataforma"`
	Level    string   `json:"nivel"`
	URL      string   `json:"url"`
	Skills   []string `json:"skills"`
}

// LoadCatalog reads a resource catalog. Both the {"courses": [...]} layout and the
// {"cursos_recomendados": {"gratuitos": [...], "de_pago": [...]}} layout are accepted.
// A missing file is reported as *types.MissingInputError.
func LoadCatalog(path string) (*types.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &types.MissingInputError{Resource: "catalog", ID: path, Cause: err}
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return catalog, nil
}

// ParseCatalog decodes catalog JSON in either supported layout
func ParseCatalog(data []byte) (*types.Catalog, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
	}

	if _, ok := probe["cursos_recomendados"]; ok {
		var legacy legacyCatalog
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
		}
		catalog := &types.Catalog{Courses: make([]types.Course, 0, len(legacy.Courses.Free)+len(legacy.Courses.Paid))}
		for _, c := range legacy.Courses.Free {
			catalog.Courses = append(catalog.Courses, c.toCourse(true))
		}
		for _, c := range legacy.Courses.Paid {
			catalog.Courses = append(catalog.Courses, c.toCourse(false))
		}
		return catalog, nil
	}

	var catalog types.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
	}
	if catalog.Courses == nil {
		catalog.Courses = []types.Course{}
	}
	return &catalog, nil
}

func (c legacyCourse) toCourse(free bool) types.Course {
	return types.Course{
		Name:     c.Name,
		Platform: c.Platform,
		Level:    c.Level,
		URL:      c.URL,
		Skills:   c.Skills,
		Free:     free,
	}
}
