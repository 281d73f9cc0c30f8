// Command pdfoutline scans a directory for PDF files and writes one
// outline JSON file per document into an output directory.
//
// Usage:
//
//	pdfoutline -input ./pdfs -output ./outlines \
//	  [-config config.yaml] [-workers 4] [-cache cache.db] \
//	  [-report summary.xlsx] [-title-fallback]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/divyanshahuja36/pdfoutline"
	"github.com/divyanshahuja36/pdfoutline/report"
)

func main() {
	var (
		inputDir      = flag.String("input", "", "Directory containing PDF files")
		outputDir     = flag.String("output", "", "Directory for outline JSON files")
		configPath    = flag.String("config", "", "Path to config file (JSON or YAML)")
		workers       = flag.Int("workers", 0, "Concurrent documents (0 = one per CPU)")
		cachePath     = flag.String("cache", "", "SQLite cache path; unchanged files are skipped")
		reportPath    = flag.String("report", "", "Write an XLSX batch summary to this path")
		titleFallback = flag.Bool("title-fallback", false, "Use the file name as title when none is detected")
	)
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// Optional .env for local runs; absence is not an error.
	_ = godotenv.Load()

	cfg := pdfoutline.DefaultConfig()
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			slog.Error("loading config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}

	// Flags and environment override the config file.
	if *workers != 0 {
		cfg.Workers = *workers
	}
	if *cachePath != "" {
		cfg.CachePath = *cachePath
	}
	if *titleFallback {
		cfg.TitleFallback = true
	}
	if v := os.Getenv("PDFOUTLINE_INPUT"); v != "" && *inputDir == "" {
		*inputDir = v
	}
	if v := os.Getenv("PDFOUTLINE_OUTPUT"); v != "" && *outputDir == "" {
		*outputDir = v
	}
	if v := os.Getenv("PDFOUTLINE_CACHE"); v != "" && cfg.CachePath == "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("PDFOUTLINE_WORKERS"); v != "" && cfg.Workers == 0 {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Error("parsing PDFOUTLINE_WORKERS", "value", v, "error", err)
			os.Exit(1)
		}
		cfg.Workers = n
	}

	if *inputDir == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: pdfoutline -input DIR -output DIR [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ex, err := pdfoutline.New(cfg)
	if err != nil {
		slog.Error("creating extractor", "error", err)
		os.Exit(1)
	}
	defer ex.Close()

	res, err := ex.ExtractDir(context.Background(), *inputDir, *outputDir)
	if err != nil {
		slog.Error("batch failed", "error", err)
		os.Exit(1)
	}

	if *reportPath != "" {
		if err := report.Write(*reportPath, res); err != nil {
			slog.Error("writing report", "path", *reportPath, "error", err)
			os.Exit(1)
		}
		slog.Info("report written", "path", *reportPath)
	}

	slog.Info("batch complete",
		"processed", res.Processed, "cached", res.Cached, "failed", res.Failed)
	if res.Failed > 0 {
		os.Exit(1)
	}
}

// loadConfig decodes a JSON or YAML config file into cfg.
func loadConfig(path string, cfg *pdfoutline.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}
