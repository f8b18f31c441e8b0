package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/skill-monitor/internal/cache"
	"github.com/jonathan/skill-monitor/internal/db"
	"github.com/jonathan/skill-monitor/internal/schemas"
	"github.com/jonathan/skill-monitor/internal/types"
	schemafiles "github.com/jonathan/skill-monitor/schemas"
)

// Artifact file names written to the output directory
const (
	FrequenciesFile       = "skill_frequencies.json"
	MatrixFile            = "competency_matrix.json"
	UserMatrixFile        = "competency_matrix_user.json"
	AnalysisFile          = "market_analysis.json"
	SkillsBySeniorityFile = "skills_by_seniority.json"
	SnapshotFile          = "market_snapshot.json"
	CorpusFile            = "corpus.meta.json"
)

// WriteJSON validates v against an embedded schema (skipped when schema is empty) and writes it
// as indented JSON
func WriteJSON(path, schema string, v any) error {
	if schema != "" {
		if err := schemas.ValidateValue(schema, v); err != nil {
			return fmt.Errorf("%s failed schema validation: %w", filepath.Base(path), err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteArtifacts writes every artifact of a run to dir
func WriteArtifacts(dir string, result *Result) error {
	snapshot := result.Snapshot
	artifacts := []struct {
		file, schema string
		content      any
	}{
		{FrequenciesFile, schemafiles.SkillFrequencies, snapshot.Frequencies},
		{MatrixFile, schemafiles.CompetencyMatrix, snapshot.Matrix},
		{AnalysisFile, schemafiles.MarketAnalysis, snapshot.Analysis},
		{SkillsBySeniorityFile, "", snapshot.SkillsBySeniority},
		{SnapshotFile, schemafiles.MarketSnapshot, snapshot},
	}
	for _, a := range artifacts {
		if err := WriteJSON(filepath.Join(dir, a.file), a.schema, a.content); err != nil {
			return err
		}
	}

	if result.UserMatrix != nil {
		if err := WriteJSON(filepath.Join(dir, UserMatrixFile), schemafiles.CompetencyMatrix, result.UserMatrix); err != nil {
			return err
		}
	}
	if result.Corpus != nil {
		if err := WriteJSON(filepath.Join(dir, CorpusFile), "", result.Corpus); err != nil {
			return err
		}
	}
	return nil
}

// ReadSnapshotFile loads a snapshot previously written by WriteArtifacts
func ReadSnapshotFile(path string) (*types.MarketSnapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &types.MissingInputError{Resource: "market snapshot", ID: path, Cause: err}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return decodeSnapshot(data, path)
}

func decodeSnapshot(data []byte, source string) (*types.MarketSnapshot, error) {
	if err := schemas.ValidateBytes(schemafiles.MarketSnapshot, data); err != nil {
		return nil, fmt.Errorf("snapshot %s is invalid: %w", source, err)
	}
	var snapshot types.MarketSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", source, err)
	}
	return &snapshot, nil
}

// ArtifactReader reads the latest stored artifact for a step. *db.DB implements it.
type ArtifactReader interface {
	LatestArtifact(ctx context.Context, step string) ([]byte, error)
}

// SnapshotSource locates the latest market snapshot. Sources are tried in order: cache,
// database, file. Nil or empty sources are skipped, and so is a cache that returns an error.
type SnapshotSource struct {
	Cache cache.SnapshotCache
	Store ArtifactReader
	Path  string
}

// LoadSnapshot returns the most recent snapshot available. When every source comes up empty
// the result is a MissingInputError.
func (s SnapshotSource) LoadSnapshot(ctx context.Context) (*types.MarketSnapshot, error) {
	if s.Cache != nil {
		// a failing cache falls through to the next source
		if snapshot, err := s.Cache.Get(ctx); err == nil && snapshot != nil {
			return snapshot, nil
		}
	}

	if s.Store != nil {
		data, err := s.Store.LatestArtifact(ctx, db.StepSnapshot)
		if err != nil {
			return nil, err
		}
		if data != nil {
			snapshot, err := decodeSnapshot(data, "database")
			if err != nil {
				return nil, err
			}
			if s.Cache != nil {
				_ = s.Cache.Set(ctx, snapshot)
			}
			return snapshot, nil
		}
	}

	if s.Path != "" {
		return ReadSnapshotFile(s.Path)
	}
	return nil, &types.MissingInputError{Resource: "market snapshot", ID: "latest"}
}
