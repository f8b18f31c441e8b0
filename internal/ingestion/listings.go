package ingestion

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/skill-monitor/internal/types"
)

// Defaults applied when a listing has no company or location
const (
	DefaultCompany  = "No especificada"
	DefaultLocation = "Chile"
)

// Listing sources inferred from the corpus file name
const (
	SourceComputrabajo = "Computrabajo"
	SourceIndeed       = "Indeed"
)

// fieldAliases maps each listing field to the column names that may carry it, highest priority first
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{"title", []string{"title", "titulo", "título"}},
	{"company", []string{"company", "empresa"}},
	{"location", []string{"location", "ubicacion", "ubicación"}},
	{"url", []string{"url", "enlace", "web-scraper-start-url"}},
	{"description", []string{"description", "descripcion", "descripción"}},
	{"salary", []string{"salary_raw", "salary", "salario"}},
	{"salary_numeric", []string{"salary_numeric", "salario_numerico"}},
	{"experience_text", []string{"experience_text", "experiencia"}},
	{"source", []string{"source", "fuente"}},
}

// record is one raw row keyed by lowercased column name
type record map[string]string

func (r record) value(field string) string {
	for _, fa := range fieldAliases {
		if fa.field != field {
			continue
		}
		for _, alias := range fa.aliases {
			if v := strings.TrimSpace(r[alias]); v != "" {
				return v
			}
		}
	}
	return ""
}

func (r record) toListing(source string) types.Listing {
	listing := types.Listing{
		Title:          CleanField(r.value("title")),
		Company:        CleanField(r.value("company")),
		Location:       CleanField(r.value("location")),
		Description:    CleanField(r.value("description")),
		ExperienceText: CleanField(r.value("experience_text")),
		SalaryRaw:      CleanField(r.value("salary")),
		Source:         r.value("source"),
		URL:            r.value("url"),
	}
	if listing.Company == "" {
		listing.Company = DefaultCompany
	}
	if listing.Location == "" {
		listing.Location = DefaultLocation
	}
	if listing.Source == "" {
		listing.Source = source
	}

	if n, err := strconv.ParseFloat(r.value("salary_numeric"), 64); err == nil && n > 0 {
		listing.SalaryNumeric = n
	} else {
		listing.SalaryNumeric = ParseSalary(listing.SalaryRaw)
	}
	return listing
}

// SourceFromPath infers the job board from a corpus file name
func SourceFromPath(path string) string {
	if strings.Contains(strings.ToLower(filepath.Base(path)), "compu") {
		return SourceComputrabajo
	}
	return SourceIndeed
}

// ReadCSV reads listings from a web-scraper CSV export. Rows that cannot be parsed are skipped
// and counted; the returned listings are not yet deduplicated.
func ReadCSV(r io.Reader, source string) ([]types.Listing, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []types.Listing{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	listings := make([]types.Listing, 0)
	bad := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			bad++
			continue
		}
		if err != nil {
			return nil, bad, fmt.Errorf("failed to read CSV: %w", err)
		}

		rec := make(record, len(header))
		for i, value := range row {
			if i < len(header) {
				rec[header[i]] = value
			}
		}
		listings = append(listings, rec.toListing(source))
	}
	return listings, bad, nil
}

// ReadJSON reads listings from a JSON array of objects using the same column names as the CSV reader
func ReadJSON(r io.Reader, source string) ([]types.Listing, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse listings JSON: %w", err)
	}

	listings := make([]types.Listing, 0, len(raw))
	for _, obj := range raw {
		rec := make(record, len(obj))
		for k, v := range obj {
			key := strings.ToLower(strings.TrimSpace(k))
			switch val := v.(type) {
			case nil:
			case string:
				rec[key] = val
			case float64:
				rec[key] = strconv.FormatFloat(val, 'f', -1, 64)
			default:
				rec[key] = fmt.Sprint(val)
			}
		}
		listings = append(listings, rec.toListing(source))
	}
	return listings, nil
}

// Finalize drops listings without a title and removes duplicates on (title, description),
// keeping the first occurrence. Returns the kept listings and the number dropped.
func Finalize(listings []types.Listing) ([]types.Listing, int) {
	type key struct{ title, description string }

	seen := make(map[key]bool, len(listings))
	out := make([]types.Listing, 0, len(listings))
	for _, l := range listings {
		if strings.TrimSpace(l.Title) == "" {
			continue
		}
		k := key{l.Title, l.Description}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out, len(listings) - len(out)
}

// Loader reads listing corpora from CSV and JSON files
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load reads every path (files, or directories scanned for *.csv and *.json), concatenates the
// listings in path order and finalizes them. A path that does not exist is a MissingInputError;
// a file that cannot be parsed is logged and skipped.
func (l *Loader) Load(paths ...string) ([]types.Listing, *Metadata, error) {
	files, err := expandPaths(paths)
	if err != nil {
		return nil, nil, err
	}

	meta := NewMetadata()
	all := make([]types.Listing, 0)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read listings file %s: %w", path, err)
		}

		listings, bad, err := parseFile(path, data)
		if err != nil {
			l.logger.Warn("skipping unreadable listings file", zap.String("path", path), zap.Error(err))
			meta.AddFile(path, data, 0)
			continue
		}
		if bad > 0 {
			l.logger.Warn("skipped malformed CSV rows", zap.String("path", path), zap.Int("rows", bad))
		}
		l.logger.Info("read listings file", zap.String("path", path), zap.Int("listings", len(listings)))

		meta.AddFile(path, data, len(listings))
		meta.MalformedRows += bad
		all = append(all, listings...)
	}

	final, dropped := Finalize(all)
	meta.Finish(final, dropped)
	l.logger.Info("listing corpus loaded",
		zap.Int("listings", len(final)),
		zap.Int("dropped", dropped),
		zap.String("hash", meta.Hash))
	return final, meta, nil
}

func parseFile(path string, data []byte) ([]types.Listing, int, error) {
	source := SourceFromPath(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		listings, err := ReadJSON(strings.NewReader(string(data)), source)
		return listings, 0, err
	default:
		return ReadCSV(strings.NewReader(string(data)), source)
	}
}

func expandPaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, &types.MissingInputError{Resource: "listings", ID: "(no path)"}
	}

	files := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			return nil, &types.MissingInputError{Resource: "listings", ID: p, Cause: err}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if !e.IsDir() && (ext == ".csv" || ext == ".json") {
				found = append(found, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
