package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/skill-monitor/internal/types"
)

// ProfileStore keeps user profiles as JSONB documents keyed by user_id
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a profile store backed by db
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get loads a profile. A missing profile is a *types.MissingInputError.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*types.UserProfile, error) {
	var content []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT profile FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &types.MissingInputError{Resource: "profile", ID: userID}
		}
		return nil, fmt.Errorf("failed to get profile %s: %w", userID, err)
	}

	var profile types.UserProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
	}
	return &profile, nil
}

// Save inserts or overwrites a profile
func (s *ProfileStore) Save(ctx context.Context, profile *types.UserProfile) error {
	content, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, profile, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET profile = $2, updated_at = $4`,
		profile.UserID, content, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", profile.UserID, err)
	}
	return nil
}

// List returns all user ids in ascending order
func (s *ProfileStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.pool.Query(ctx, `SELECT user_id FROM user_profiles ORDER BY user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan profile id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
