package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/Kimchi-Robotics/map-post-processing/internal/clean"
	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// Default configuration values. These match the conventions of ROS map
// exports, where 255 is free, 0 is occupied, and 205 marks unknown
// space.
const (
	// DefaultMinArea is the minimum polygon-estimated area a region must
	// reach to survive filtering. 30 square cells reliably removes the
	// leg-sized speckle of teleoperated mapping sessions while leaving
	// furniture and wall segments alone at typical 5cm resolutions.
	DefaultMinArea = 30

	// DefaultFreeThresh is the lower intensity bound for free space.
	// Cells at or above it are considered free. 230 leaves headroom for
	// the slight darkening that PNG round trips can introduce in
	// nominally-white cells.
	DefaultFreeThresh = 230

	// DefaultOccupiedThresh is the upper intensity bound for obstacles.
	// Cells below it are considered occupied. 50 tolerates anti-aliased
	// obstacle edges without swallowing the 205 unknown band.
	DefaultOccupiedThresh = 50

	// AppName is the application name used for XDG directory paths.
	AppName = "mapclean"
)

// Config holds all options for a mapclean invocation. It is populated
// from CLI flags and the optional .mapclean file and passed through the
// application by dependency injection rather than global state.
type Config struct {
	// Input is the map image to clean.
	Input string

	// Output is where the cleaned map is written. Empty means derive
	// from the input path by appending "_clean" before the extension.
	Output string

	// Params are the cleaning thresholds and area limit.
	Params model.Params

	// Preview additionally writes a three-panel comparison image next
	// to the input.
	Preview bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is an optional file the report is also written to.
	ReportFile string

	// ConfigFilePath is the path of the configuration file. Empty means
	// search for .mapclean in the current directory and then the home
	// directory.
	ConfigFilePath string

	// Profiles holds per-map parameter profiles loaded from the config
	// file.
	Profiles *File

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database. Defaults to
	// the XDG data directory.
	DBDir string
}

// NewConfig creates a Config with default values.
//
// Design decision: a constructor instead of zero values because most
// defaults are non-zero, and the constructor doubles as documentation
// of what they are.
func NewConfig() *Config {
	return &Config{
		Params: model.Params{
			MinArea:        DefaultMinArea,
			FreeThresh:     DefaultFreeThresh,
			OccupiedThresh: DefaultOccupiedThresh,
		},
		SaveHistory: true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for mapclean,
// e.g. ~/.local/share/mapclean on Linux.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for mapclean,
// e.g. ~/.config/mapclean on Linux.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration, returning a specific error for the
// first problem found. It is called once after CLI parsing, before any
// raster is loaded, so precondition violations fail fast with no
// partial output.
func (c *Config) Validate() error {
	if c.Input == "" {
		return ErrNoInput
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	// Threshold and area validation is shared with the core so a bad
	// parameter set fails identically everywhere.
	return clean.ValidateParams(c.Params)
}
