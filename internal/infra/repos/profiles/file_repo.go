// Package profiles loads named rewrite configurations from a directory of
// YAML or JSON files.
package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmrzaf/csvanon/internal/domain"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	List() ([]*domain.Profile, error)
	Get(id string) (*domain.Profile, error)
	GetByPath(path string) (*domain.Profile, error)
}

type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func isProfileFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// List skips files that fail to parse.
func (r *FileRepository) List() ([]*domain.Profile, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*domain.Profile{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0)
	for _, entry := range entries {
		if entry.IsDir() || !isProfileFile(entry.Name()) {
			continue
		}

		path := filepath.Join(r.baseDir, entry.Name())
		profile, err := r.loadProfile(path)
		if err != nil {
			continue
		}
		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles, nil
}

func (r *FileRepository) Get(id string) (*domain.Profile, error) {
	profiles, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		if p.ID == id || p.Name == id {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// GetByPath loads a profile file. Relative paths resolve against the base
// directory and the result must stay inside it.
func (r *FileRepository) GetByPath(path string) (*domain.Profile, error) {
	resolved, err := r.resolveInBase(path)
	if err != nil {
		return nil, err
	}
	return r.loadProfile(resolved)
}

func (r *FileRepository) resolveInBase(path string) (string, error) {
	base, err := filepath.Abs(r.baseDir)
	if err != nil {
		return "", err
	}
	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("profile path %q escapes %s", path, r.baseDir)
	}
	return target, nil
}

func (r *FileRepository) loadProfile(path string) (*domain.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var profile domain.Profile
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".json" {
		err = json.Unmarshal(data, &profile)
	} else {
		err = yaml.Unmarshal(data, &profile)
	}

	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", filepath.Base(path), err)
	}

	if profile.ID == "" {
		profile.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if profile.Name == "" {
		profile.Name = profile.ID
	}

	return &profile, nil
}
