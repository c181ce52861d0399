// Package preset stores named search presets as a JSON file.
//
// A preset is only loosely validated on disk; Filter turns it into a
// validated clip.Filter before it reaches the search engine.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Dagingo/clip-finder/internal/clip"
)

// FileName is the presets file inside the config directory.
const FileName = "presets.json"

// Defaults applied to missing fields.
const (
	DefaultTimeRangeDays  = 7
	DefaultMaxClips       = 50
	DefaultDownloadFolder = "clips_downloaded"
)

// MaxTimeRangeDays caps the search window well below the time.Duration range.
const MaxTimeRangeDays = 36500

// ErrNotFound is returned when a preset name is unknown.
var ErrNotFound = errors.New("preset not found")

// Preset is a saved set of search criteria.
type Preset struct {
	TimeRangeDays  int      `json:"time_range_days"`
	MaxClips       int      `json:"max_clips"`
	Categories     []string `json:"categories"`
	Channels       []string `json:"channels"`
	Languages      []string `json:"languages"`
	DownloadFolder string   `json:"download_folder"`
}

// Default returns the preset used when none is selected.
func Default() Preset {
	return Preset{
		TimeRangeDays:  DefaultTimeRangeDays,
		MaxClips:       DefaultMaxClips,
		Categories:     []string{},
		Channels:       []string{},
		Languages:      []string{},
		DownloadFolder: DefaultDownloadFolder,
	}
}

// UnmarshalJSON fills fields missing from the document with defaults.
func (p *Preset) UnmarshalJSON(data []byte) error {
	type plain Preset
	v := plain(Default())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Preset(v)
	return nil
}

// Filter validates the preset and returns the search criteria it describes.
func (p Preset) Filter() (clip.Filter, error) {
	if p.TimeRangeDays <= 0 {
		return clip.Filter{}, fmt.Errorf("%w: time_range_days must be positive, got %d", clip.ErrInvalidFilter, p.TimeRangeDays)
	}
	if p.TimeRangeDays > MaxTimeRangeDays {
		return clip.Filter{}, fmt.Errorf("%w: time_range_days must be at most %d, got %d", clip.ErrInvalidFilter, MaxTimeRangeDays, p.TimeRangeDays)
	}
	window := time.Duration(p.TimeRangeDays) * 24 * time.Hour
	return clip.NewFilter(window, p.Categories, p.Channels, p.Languages, p.MaxClips)
}

// DownloadDir resolves the download folder. Relative folders live under baseDir.
func (p Preset) DownloadDir(baseDir string) string {
	folder := strings.TrimSpace(p.DownloadFolder)
	if folder == "" {
		folder = DefaultDownloadFolder
	}
	if filepath.IsAbs(folder) {
		return folder
	}
	return filepath.Join(baseDir, folder)
}

// Store reads and writes the presets file.
type Store struct {
	path string
}

// NewStore creates a store for configDir/presets.json.
func NewStore(configDir string) *Store {
	return &Store{path: filepath.Join(configDir, FileName)}
}

// Path returns the presets file location.
func (s *Store) Path() string { return s.path }

// Load returns every preset. A missing file means no presets.
func (s *Store) Load() (map[string]Preset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Preset{}, nil
		}
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}

	presets := map[string]Preset{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return presets, nil
	}
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("presets file %s is corrupt: %w", s.path, err)
	}
	return presets, nil
}

// Get returns the named preset.
func (s *Store) Get(name string) (Preset, error) {
	presets, err := s.Load()
	if err != nil {
		return Preset{}, err
	}
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, nil
}

// Names returns the preset names in sorted order.
func (s *Store) Names() ([]string, error) {
	presets, err := s.Load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Save adds or replaces the named preset.
func (s *Store) Save(name string, p Preset) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("preset name is required")
	}
	if _, err := p.Filter(); err != nil {
		return err
	}

	presets, err := s.Load()
	if err != nil {
		return err
	}
	presets[name] = p

	data, err := json.MarshalIndent(presets, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write presets: %w", err)
	}
	return os.Rename(tmp, s.path)
}
