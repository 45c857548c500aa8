package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leowmjw/go-field-timeline/pkg/hcl"
	"github.com/leowmjw/go-field-timeline/pkg/sequence"
)

// source is a description together with where it was read from
type source struct {
	origin string
	desc   *sequence.Description
}

func main() {
	var (
		path        string
		displayJSON bool
		logLevel    string
		merge       bool
	)

	flag.StringVar(&path, "path", "", "Path to an HCL/JSON description file or a directory (required)")
	flag.BoolVar(&displayJSON, "json", false, "Display reports as JSON")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flag.BoolVar(&merge, "merge", true, "Merge all HCL files of a directory into one sequence")
	flag.Parse()

	logger := newLogger(os.Stderr, logLevel)
	slog.SetDefault(logger)

	if path == "" {
		logger.Error("Path parameter is required")
		flag.Usage()
		os.Exit(1)
	}

	sources, err := loadSources(path, merge, logger)
	if err != nil {
		logger.Error("Failed to load descriptions", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("Found descriptions", "count", len(sources))

	inspector := sequence.NewInspector(logger)
	failed := 0
	for _, src := range sources {
		logger.Info("Processing description", "origin", src.origin)
		report, err := inspector.Inspect(src.desc)
		if err != nil {
			logger.Error("Failed to inspect description", "origin", src.origin, "error", err)
			failed++
			continue
		}
		displayReport(os.Stdout, src.origin, report, displayJSON, logger)
	}

	if failed > 0 {
		os.Exit(2)
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// loadSources reads a single file, or a directory either as one merged HCL
// sequence or as one description per .hcl/.json/.yaml file
func loadSources(path string, merge bool, logger *slog.Logger) ([]source, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !fileInfo.IsDir() {
		desc, err := readDescription(path)
		if err != nil {
			return nil, err
		}
		return []source{{origin: path, desc: desc}}, nil
	}

	logger.Info("Processing directory", "path", path, "merge", merge)
	if merge {
		desc, err := hcl.ParseHCLDirectory(path)
		if err != nil {
			return nil, err
		}
		return []source{{origin: path, desc: desc}}, nil
	}

	files, err := findDescriptionFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no description files found in directory %s", path)
	}

	var sources []source
	for _, file := range files {
		desc, err := readDescription(file)
		if err != nil {
			logger.Error("Failed to read description", "file", file, "error", err)
			continue
		}
		sources = append(sources, source{origin: file, desc: desc})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no readable description in directory %s", path)
	}
	return sources, nil
}

// findDescriptionFiles finds all HCL, JSON and YAML files in a directory
func findDescriptionFiles(dirPath string) ([]string, error) {
	var files []string

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(info.Name()) {
		case ".hcl", ".tf", ".json", ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func readDescription(file string) (*sequence.Description, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", file, err)
	}
	desc, err := hcl.ParseDescription(file, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	if desc.Name == "" {
		desc.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return desc, nil
}

// displayReport shows the report in human-readable or JSON format
func displayReport(w io.Writer, origin string, report *sequence.Report, jsonOutput bool, logger *slog.Logger) {
	if jsonOutput {
		reportJSON, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Error("Failed to marshal report to JSON", "error", err)
			fmt.Fprintf(w, "%+v\n", report)
		} else {
			fmt.Fprintln(w, string(reportJSON))
		}
		return
	}

	fmt.Fprintf(w, "Sequence %q (%s):\n", report.Name, origin)
	fmt.Fprintf(w, "  Fields: %d on %d meshes with %d arrays\n", report.Fields, report.Meshes, report.Arrays)
	if len(report.Labels) > 0 {
		fmt.Fprintln(w, "  Labels:")
		for key, value := range report.Labels {
			fmt.Fprintf(w, "    %s: %s\n", key, value)
		}
	}
	fmt.Fprintf(w, "  Time: [%g, %g] tolerance %g\n", report.Start, report.End, report.Tolerance)
	fmt.Fprintf(w, "  Hot spots: %v\n", report.HotSpots)
	for i, win := range report.Windows {
		fmt.Fprintf(w, "  Window %d: [%g, %g]\n", i, win.Start, win.End)
	}
	for _, q := range report.Queries {
		if q.Error != "" {
			fmt.Fprintf(w, "  Query %s (%s %g): error: %s\n", q.ID, q.Side, q.At, q.Error)
			continue
		}
		for _, ids := range q.Ids {
			fmt.Fprintf(w, "  Query %s (%s %g): mesh=%d array=%d slot=%d field=%d\n",
				q.ID, q.Side, q.At, ids.MeshID, ids.ArrayID, ids.ArrayIndexInField, ids.FieldID)
		}
	}
}
