// Package pdfoutline extracts a hierarchical outline (title plus
// H1, H2, and H3 headings with page numbers) from PDF files using
// layout and font heuristics, and serializes it as JSON.
package pdfoutline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/divyanshahuja36/pdfoutline/classify"
	"github.com/divyanshahuja36/pdfoutline/outline"
	"github.com/divyanshahuja36/pdfoutline/parser"
	"github.com/divyanshahuja36/pdfoutline/store"
)

// Extractor is the main entry point for outline extraction.
type Extractor interface {
	// ExtractFile runs the two-pass pipeline on a single PDF.
	ExtractFile(ctx context.Context, path string) (*outline.Outline, error)

	// ExtractDir processes every PDF in inputDir and writes one JSON
	// file per document into outputDir. Individual failures are
	// recorded in the result, not returned as errors.
	ExtractDir(ctx context.Context, inputDir, outputDir string) (*BatchResult, error)

	// Close releases the result cache, if one is configured.
	Close() error
}

// FileResult reports the outcome for one document in a batch run.
type FileResult struct {
	Path     string `json:"path"`
	Output   string `json:"output"`
	Title    string `json:"title"`
	Headings int    `json:"headings"`
	Cached   bool   `json:"cached"`
	Err      error  `json:"error,omitempty"`
}

// BatchResult aggregates a full batch run.
type BatchResult struct {
	Files     []FileResult `json:"files"`
	Processed int          `json:"processed"`
	Cached    int          `json:"cached"`
	Failed    int          `json:"failed"`
}

// Option configures an Extractor beyond its Config.
type Option func(*extractor)

// WithSpanSource replaces the PDF decoder, e.g. with a fake in tests.
func WithSpanSource(src parser.SpanSource) Option {
	return func(e *extractor) { e.source = src }
}

// extractor is the concrete implementation of Extractor.
type extractor struct {
	cfg    Config
	source parser.SpanSource
	cls    *classify.Classifier
	cache  *store.Store
}

// New creates an Extractor with the given configuration.
func New(cfg Config, opts ...Option) (Extractor, error) {
	cfg.applyDefaults()
	if cfg.Classifier.TitleRatio < 0 || cfg.Classifier.BodyRatio < 0 || cfg.Classifier.BottomBand < 0 {
		return nil, fmt.Errorf("%w: ratios must not be negative", ErrInvalidConfig)
	}

	cls, err := classify.New(cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	e := &extractor{cfg: cfg, cls: cls}
	for _, o := range opts {
		o(e)
	}

	if e.source == nil {
		src := parser.NewPDFSource()
		src.RowTolerance = cfg.RowTolerance
		src.WordGap = cfg.WordGap
		src.CenterTolerance = cfg.CenterTolerance
		e.source = src
	}

	if cfg.CachePath != "" {
		s, err := store.New(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		e.cache = s
	}

	return e, nil
}

// ExtractFile processes a document through the full pipeline.
func (e *extractor) ExtractFile(ctx context.Context, path string) (*outline.Outline, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	supported := false
	for _, f := range e.source.SupportedFormats() {
		if f == ext {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	filename := filepath.Base(path)
	start := time.Now()

	doc, err := e.source.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	o := e.extract(doc)
	if o.Title == "" && e.cfg.TitleFallback {
		o.Title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	slog.Info("extract: outline assembled",
		"file", filename, "pages", len(doc.Pages), "spans", doc.SpanCount(),
		"headings", len(o.Entries), "elapsed", time.Since(start).Round(time.Millisecond))
	return o, nil
}

// extract runs the two-pass core: profile first, then classification
// over the same spans, then cleaning, dedup, and assembly.
func (e *extractor) extract(doc *parser.Document) *outline.Outline {
	prof := classify.BuildProfile(doc)

	b := outline.NewBuilder()
	if prof.TitleText != "" {
		b.SetTitle(prof.TitleText, prof.TitlePage)
	}

	for _, page := range doc.Pages {
		for _, s := range page.Spans {
			if level, ok := e.cls.Classify(s, page.Height, prof); ok {
				b.Add(outline.Candidate{Level: level, Text: s.Text, Page: s.Page})
			}
		}
	}
	return b.Outline()
}

// ExtractDir processes a directory of PDFs with a bounded worker pool.
// One input PDF maps to one output JSON file with the same base name.
func (e *extractor) ExtractDir(ctx context.Context, inputDir, outputDir string) (*BatchResult, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.ToLower(filepath.Ext(entry.Name())) != ".pdf" {
			continue
		}
		paths = append(paths, filepath.Join(inputDir, entry.Name()))
	}

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	slog.Info("batch: processing directory",
		"input", inputDir, "output", outputDir, "files", len(paths), "workers", workers)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, workers)
		res = &BatchResult{}
	)

	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				res.Files = append(res.Files, FileResult{Path: path, Err: ctx.Err()})
				res.Failed++
				mu.Unlock()
				return
			}

			fr := e.processFile(ctx, path, outputDir)
			mu.Lock()
			res.Files = append(res.Files, fr)
			switch {
			case fr.Err != nil:
				res.Failed++
			case fr.Cached:
				res.Cached++
			default:
				res.Processed++
			}
			mu.Unlock()

			if fr.Err != nil {
				slog.Error("batch: file failed", "file", filepath.Base(path), "error", fr.Err)
			} else {
				slog.Info("batch: file done",
					"file", filepath.Base(path), "title", fr.Title,
					"headings", fr.Headings, "cached", fr.Cached)
			}
		}(path)
	}
	wg.Wait()

	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })
	return res, nil
}

// processFile extracts one document, consulting and updating the
// result cache when configured.
func (e *extractor) processFile(ctx context.Context, path, outputDir string) FileResult {
	filename := filepath.Base(path)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	fr := FileResult{Path: path, Output: filepath.Join(outputDir, stem+".json")}

	var hash string
	if e.cache != nil {
		var err error
		hash, err = fileHash(path)
		if err == nil {
			if cached := e.cachedOutline(ctx, path, hash); cached != nil {
				if err := writeOutlineJSON(fr.Output, cached); err != nil {
					fr.Err = err
					return fr
				}
				fr.Title = cached.Title
				fr.Headings = len(cached.Entries)
				fr.Cached = true
				return fr
			}
		}
	}

	o, err := e.ExtractFile(ctx, path)
	if err != nil {
		fr.Err = err
		if e.cache != nil && hash != "" {
			e.recordResult(ctx, path, hash, "error", nil)
		}
		return fr
	}

	if err := writeOutlineJSON(fr.Output, o); err != nil {
		fr.Err = err
		return fr
	}
	fr.Title = o.Title
	fr.Headings = len(o.Entries)

	if e.cache != nil && hash != "" {
		e.recordResult(ctx, path, hash, "done", o)
	}
	return fr
}

// cachedOutline returns the stored outline when the file's hash is
// unchanged since the last successful run.
func (e *extractor) cachedOutline(ctx context.Context, path, hash string) *outline.Outline {
	doc, err := e.cache.GetDocumentByPath(ctx, path)
	if err != nil || doc.ContentHash != hash || doc.Status != "done" {
		return nil
	}
	var o outline.Outline
	if err := json.Unmarshal([]byte(doc.Outline), &o); err != nil {
		return nil
	}
	if o.Entries == nil {
		o.Entries = make([]outline.Entry, 0)
	}
	return &o
}

func (e *extractor) recordResult(ctx context.Context, path, hash, status string, o *outline.Outline) {
	doc := store.Document{
		Path:        path,
		Filename:    filepath.Base(path),
		ContentHash: hash,
		Status:      status,
	}
	if o != nil {
		data, err := json.Marshal(o)
		if err != nil {
			return
		}
		doc.Title = o.Title
		doc.HeadingCount = len(o.Entries)
		doc.Outline = string(data)
	}
	if _, err := e.cache.UpsertDocument(ctx, doc); err != nil {
		slog.Warn("cache: upsert failed", "file", doc.Filename, "error", err)
	}
}

// Close releases the cache.
func (e *extractor) Close() error {
	if e.cache != nil {
		return e.cache.Close()
	}
	return nil
}

// writeOutlineJSON serializes an outline with two-space indentation.
func writeOutlineJSON(path string, o *outline.Outline) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding outline: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing outline: %w", err)
	}
	return nil
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
