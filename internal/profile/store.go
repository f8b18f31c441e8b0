package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/skill-monitor/internal/types"
)

// Store persists user profiles. Get reports an absent profile as *types.MissingInputError.
type Store interface {
	Get(ctx context.Context, userID string) (*types.UserProfile, error)
	Save(ctx context.Context, profile *types.UserProfile) error
	List(ctx context.Context) ([]string, error)
}

// FileStore keeps one JSON document per user in a directory
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a file store rooted at dir. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store directory
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(userID string) (string, error) {
	if userID == "" || userID == "." || userID == ".." || strings.ContainsAny(userID, `/\`) {
		return "", &ValidationError{Message: fmt.Sprintf("user_id %q cannot be used as a file name", userID)}
	}
	return filepath.Join(s.dir, userID+".json"), nil
}

// Get loads a profile
func (s *FileStore) Get(_ context.Context, userID string) (*types.UserProfile, error) {
	path, err := s.path(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &types.MissingInputError{Resource: "profile", ID: userID, Cause: err}
		}
		return nil, fmt.Errorf("failed to read profile %s: %w", userID, err)
	}

	var profile types.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
	}
	return &profile, nil
}

// Save overwrites the profile document. The file is replaced atomically.
func (s *FileStore) Save(_ context.Context, profile *types.UserProfile) error {
	path, err := s.path(profile.UserID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create users directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace profile: %w", err)
	}
	return nil
}

// List returns the stored user ids in ascending order. A missing directory means no users.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
