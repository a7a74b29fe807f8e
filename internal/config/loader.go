package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".mapclean"

// ErrConfigNotFound is returned when the configuration file does not
// exist. Callers decide whether that matters: an explicitly requested
// file must exist, a searched-for one may not.
var ErrConfigNotFound = errors.New("configuration file not found")

// Profile holds parameter overrides for a single map file. Zero-valued
// fields fall back to the defaults, which is why the numeric fields are
// pointers: min_area 0 is a meaningful setting, not an absence.
type Profile struct {
	// MinArea overrides the minimum region area for this map.
	MinArea *float64 `yaml:"min_area,omitempty"`

	// FreeThresh overrides the free-space threshold for this map.
	FreeThresh *int `yaml:"free_thresh,omitempty"`

	// OccupiedThresh overrides the obstacle threshold for this map.
	OccupiedThresh *int `yaml:"occupied_thresh,omitempty"`
}

// File represents the structure of the .mapclean configuration file.
type File struct {
	// Defaults are parameter overrides applied to every map unless a
	// map-specific profile overrides them again.
	Defaults Profile `yaml:"defaults,omitempty"`

	// Maps keys parameter profiles by map file base name, so one config
	// file can serve a directory of floor maps with different noise
	// characteristics.
	Maps map[string]Profile `yaml:"maps,omitempty"`
}

// ParamsFor resolves the effective parameters for a map path, layering
// base <- Defaults <- map profile. The map profile is looked up by the
// path's base name.
func (f *File) ParamsFor(mapPath string, base model.Params) model.Params {
	result := base
	applyProfile(&result, f.Defaults)
	if p, ok := f.Maps[filepath.Base(mapPath)]; ok {
		applyProfile(&result, p)
	}
	return result
}

// applyProfile copies the profile's set fields onto params.
func applyProfile(params *model.Params, p Profile) {
	if p.MinArea != nil {
		params.MinArea = *p.MinArea
	}
	if p.FreeThresh != nil {
		params.FreeThresh = *p.FreeThresh
	}
	if p.OccupiedThresh != nil {
		params.OccupiedThresh = *p.OccupiedThresh
	}
}

// LoadConfigFile loads parameter profiles from a YAML file. If the file
// does not exist it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Maps == nil {
		cf.Maps = make(map[string]Profile)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file:
// an explicit path is used directly, otherwise .mapclean is looked for
// in the current directory and then the user's home directory.
// Returns the path if found, or empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
