package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// HistoryFile is stored in the workspace root.
const HistoryFile = ".material-dev-history.json"

// MaxRecent bounds History.RecentComponents.
const MaxRecent = 5

// History remembers which components were opened in the playground.
type History struct {
	LastComponent    string   `json:"lastComponent,omitempty"`
	RecentComponents []string `json:"recentComponents"`

	path string
}

// LoadHistory reads the history of the workspace at root. A missing file
// yields an empty history.
func LoadHistory(root string) (*History, error) {
	h := &History{path: filepath.Join(root, HistoryFile), RecentComponents: []string{}}

	data, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return h, fmt.Errorf("reading dev history: %w", err)
	}
	if err := json.Unmarshal(data, h); err != nil {
		return &History{path: h.path, RecentComponents: []string{}}, fmt.Errorf("parsing %s: %w", HistoryFile, err)
	}
	if h.RecentComponents == nil {
		h.RecentComponents = []string{}
	}
	return h, nil
}

// Record moves id to the front of the recent list.
func (h *History) Record(id string) {
	h.LastComponent = id
	recent := slices.DeleteFunc(h.RecentComponents, func(c string) bool { return c == id })
	recent = append([]string{id}, recent...)
	if len(recent) > MaxRecent {
		recent = recent[:MaxRecent]
	}
	h.RecentComponents = recent
}

// Save writes the history back to the workspace.
func (h *History) Save() error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(h.path, append(data, '\n'), 0o644)
}
