package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/skill-monitor/internal/types"
)

// Metadata describes one loaded listing corpus
type Metadata struct {
	Files         []FileInfo     `json:"files"`
	Timestamp     string         `json:"timestamp"` // RFC3339 format
	Hash          string         `json:"hash"`      // SHA256 over every file in load order
	Listings      int            `json:"listings"`
	Dropped       int            `json:"dropped"` // empty titles and duplicates
	MalformedRows int            `json:"malformed_rows"`
	BySource      map[string]int `json:"by_source"`

	digest hash.Hash
}

// FileInfo records one corpus file
type FileInfo struct {
	Path     string `json:"path"`
	Listings int    `json:"listings"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata() *Metadata {
	return &Metadata{
		Files:     []FileInfo{},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		BySource:  map[string]int{},
		digest:    sha256.New(),
	}
}

// AddFile folds a file into the corpus hash
func (m *Metadata) AddFile(path string, data []byte, listings int) {
	m.Files = append(m.Files, FileInfo{Path: path, Listings: listings})
	if m.digest != nil {
		_, _ = m.digest.Write(data)
	}
}

// Finish records the final corpus counts and seals the hash
func (m *Metadata) Finish(listings []types.Listing, dropped int) {
	m.Listings = len(listings)
	m.Dropped = dropped
	for _, l := range listings {
		m.BySource[l.Source]++
	}
	if m.digest != nil {
		m.Hash = hex.EncodeToString(m.digest.Sum(nil))
	}
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}

// WriteOutput writes the consolidated listings and their metadata to outDir
func WriteOutput(outDir string, listings []types.Listing, metadata *Metadata) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	listingsJSON, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal listings: %w", err)
	}
	listingsPath := filepath.Join(outDir, "listings.json")
	if err := os.WriteFile(listingsPath, listingsJSON, 0644); err != nil {
		return fmt.Errorf("failed to write listings file: %w", err)
	}

	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return err
	}
	metaPath := filepath.Join(outDir, "listings.meta.json")
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
