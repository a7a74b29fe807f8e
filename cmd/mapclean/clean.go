package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kimchi-Robotics/map-post-processing/internal/clean"
	"github.com/Kimchi-Robotics/map-post-processing/internal/config"
	"github.com/Kimchi-Robotics/map-post-processing/internal/database"
	"github.com/Kimchi-Robotics/map-post-processing/internal/imageio"
	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
	"github.com/Kimchi-Robotics/map-post-processing/internal/report"
	"github.com/Kimchi-Robotics/map-post-processing/internal/visualize"
)

// NewCleanCmd creates the clean command.
func NewCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <map>",
		Short: "Remove small obstacle blobs from an occupancy grid map",
		Long: `Clean loads an occupancy grid map (PGM or PNG), classifies its cells
into free, occupied, and unknown, erases connected obstacle regions
whose estimated area falls below --min-area, and writes a reconstructed
map holding exactly the canonical three intensities (255 free, 0
occupied, 205 unknown).

The area of a region is the polygon area of its traced outer boundary,
not its pixel count: thin walls enclose almost no area and survive,
while compact blobs such as an operator's legs are removed.

Examples:
  # Clean a map with default parameters
  mapclean clean floor2.pgm

  # Tune the area threshold and write to a chosen path
  mapclean clean floor2.pgm --min-area 50 -o floor2_fixed.pgm

  # Also write a side-by-side before/after comparison image
  mapclean clean floor2.pgm --preview

  # Markdown report to a file, WebP output
  mapclean clean floor2.png -o floor2_clean.webp --markdown -r report.md

Configuration file (.mapclean) example:
  defaults:
    min_area: 30
  maps:
    floor2.pgm:
      min_area: 50
      occupied_thresh: 60`,
		Args: cobra.ExactArgs(1),
		RunE: runCleanCmd,
	}

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Output path for the cleaned map (default: <input>_clean.<ext>)")
	cmd.Flags().BoolP("preview", "p", false,
		"Also write a before/after comparison image next to the input")

	// Cleaning parameters
	cmd.Flags().Float64("min-area", config.DefaultMinArea,
		"Minimum estimated region area to keep an obstacle")
	cmd.Flags().Int("free-thresh", config.DefaultFreeThresh,
		"Intensity at or above which a cell is free (0-255)")
	cmd.Flags().Int("occupied-thresh", config.DefaultOccupiedThresh,
		"Intensity below which a cell is occupied (0-255)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .mapclean in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report", "r", "",
		"Also write the report to the specified file path")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	return cmd
}

// runCleanCmd executes the clean command.
func runCleanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel on interrupt so a Ctrl-C between steps aborts cleanly.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runClean(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// optional .mapclean file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Input = args[0]

	var err error

	cfg.Output, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Params.MinArea, err = cmd.Flags().GetFloat64("min-area")
	if err != nil {
		return nil, err
	}

	cfg.Params.FreeThresh, err = cmd.Flags().GetInt("free-thresh")
	if err != nil {
		return nil, err
	}

	cfg.Params.OccupiedThresh, err = cmd.Flags().GetInt("occupied-thresh")
	if err != nil {
		return nil, err
	}

	cfg.Preview, err = cmd.Flags().GetBool("preview")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file, it must exist.
	// A searched-for file is optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.Profiles = &config.File{Maps: make(map[string]config.Profile)}
	}

	// Flags changed on the command line win over file profiles; file
	// profiles win over built-in defaults.
	fileParams := cfg.Profiles.ParamsFor(cfg.Input, config.NewConfig().Params)
	if !cmd.Flags().Changed("min-area") {
		cfg.Params.MinArea = fileParams.MinArea
	}
	if !cmd.Flags().Changed("free-thresh") {
		cfg.Params.FreeThresh = fileParams.FreeThresh
	}
	if !cmd.Flags().Changed("occupied-thresh") {
		cfg.Params.OccupiedThresh = fileParams.OccupiedThresh
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// runClean loads the map, executes the pipeline, and disposes of the
// results: cleaned map to disk, optional preview, report, and history.
func runClean(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("loading map", "input", cfg.Input)
	raster, err := imageio.Load(cfg.Input)
	if err != nil {
		return err
	}

	cleanReport := model.NewCleanReport(cfg.Input, cfg.Params)
	cleanReport.SetOriginal(raster)

	p, err := clean.DefaultPipeline(cfg.Params, clean.WithLogger(logger))
	if err != nil {
		return err
	}

	start := time.Now()
	if err := p.Execute(ctx, cleanReport); err != nil {
		return err
	}
	cleanReport.Duration = time.Since(start)

	// Write the cleaned map.
	outputPath := cfg.Output
	if outputPath == "" {
		outputPath = imageio.CleanPath(cfg.Input)
	}
	if err := imageio.Save(outputPath, cleanReport.Cleaned); err != nil {
		return err
	}
	cleanReport.OutputPath = outputPath
	logger.Info("cleaned map saved", "output", outputPath)

	// Optional before/after comparison image.
	if cfg.Preview {
		comp, err := visualize.Comparison(cleanReport.Original, cleanReport.Cleaned)
		if err != nil {
			return err
		}
		compPath := imageio.ComparisonPath(cfg.Input)
		if err := imageio.SaveImage(compPath, comp); err != nil {
			return err
		}
		fmt.Printf("Comparison saved to: %s\n", compPath)
	}

	if err := outputReport(cfg, cleanReport); err != nil {
		return err
	}

	// Record the run unless the user opted out. History failures are
	// logged, not fatal: the cleaned map is already on disk.
	if cfg.SaveHistory {
		if err := saveRun(ctx, cfg, cleanReport, logger); err != nil {
			logger.Error("failed to save run history", "error", err)
		}
	}

	return nil
}

// outputReport writes the run report in the requested format, to stdout
// and optionally to a file.
func outputReport(cfg *config.Config, cleanReport *model.CleanReport) error {
	// JSON goes to one destination: the report file if given, else stdout.
	if cfg.JSONReport {
		output := os.Stdout
		if cfg.ReportFile != "" {
			f, err := createReportFile(cfg.ReportFile)
			if err != nil {
				return err
			}
			defer f.Close()
			output = f
		}
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		return encoder.Encode(model.NewSummary(cleanReport))
	}

	var writers []report.Writer
	if cfg.MarkdownReport {
		writers = append(writers, report.NewMarkdownWriter(os.Stdout))
	} else {
		writers = append(writers, report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose)))
	}

	if cfg.ReportFile != "" {
		f, err := createReportFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if cfg.MarkdownReport {
			writers = append(writers, report.NewMarkdownWriter(f))
		} else {
			writers = append(writers, report.NewSimpleWriter(f, report.WithVerbose(true)))
		}
	}

	_, err := report.NewMultiWriter(writers...).Write(cleanReport)
	return err
}

// createReportFile creates the report file, making parent directories
// as needed.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // reports are not secrets
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, nil
}

// saveRun records the finished run in the history database.
func saveRun(ctx context.Context, cfg *config.Config, cleanReport *model.CleanReport, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, cleanReport)
	if err != nil {
		return err
	}
	logger.Info("run recorded", "id", id, "db", db.Path())
	return nil
}
