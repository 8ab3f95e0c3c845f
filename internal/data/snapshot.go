package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// CatalogSnapshot is a saved copy of the remote catalog, kept so later
// refreshes can report which resources appeared or disappeared.
type CatalogSnapshot struct {
	URL       string     `json:"url"`
	Name      string     `json:"name"`
	UpdatedAt string     `json:"updated_at"` // RFC 3339
	Resources []Resource `json:"resources"`
}

// CatalogDiff lists resource names added or removed between two snapshots.
type CatalogDiff struct {
	Added   []string
	Removed []string
}

func LoadCatalogSnapshot(path string) (*CatalogSnapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}
	var s CatalogSnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse catalog snapshot: %w", err)
	}
	return &s, nil
}

func SaveCatalogSnapshot(s *CatalogSnapshot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog snapshot: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog snapshot: %w", err)
	}
	return nil
}

// DefaultSnapshotPath honours CATALOG_SNAPSHOT, else ./data/catalog.json.
func DefaultSnapshotPath() string {
	if p := os.Getenv("CATALOG_SNAPSHOT"); p != "" {
		return p
	}
	return "./data/catalog.json"
}

// DiffResources compares resource names; prev may be nil.
func DiffResources(prev, next *CatalogSnapshot) CatalogDiff {
	names := func(s *CatalogSnapshot) map[string]bool {
		m := map[string]bool{}
		if s != nil {
			for _, r := range s.Resources {
				m[r.Name] = true
			}
		}
		return m
	}
	before, after := names(prev), names(next)

	var d CatalogDiff
	for n := range after {
		if !before[n] {
			d.Added = append(d.Added, n)
		}
	}
	for n := range before {
		if !after[n] {
			d.Removed = append(d.Removed, n)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	return d
}
