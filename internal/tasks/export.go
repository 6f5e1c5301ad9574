package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/martium/fsh/internal/formatter"
	"github.com/martium/fsh/internal/models"
	"github.com/martium/fsh/internal/shared"
)

const manifestName = "export_manifest.json"

// ExportOpts contains configuration for an export run.
type ExportOpts struct {
	Formats      []formatter.Format // Output formats, one file each (default: csv)
	OutputDir    string             // Output directory (default: fsh_export_{epoch})
	BaseName     string             // File name without extension (default: services)
	SearchPhrase string             // Optional list filter, same semantics as the store's List
	PhoneRegion  string             // Region used to format phone numbers in markdown and text output
}

// ExportResult summarises a finished export.
type ExportResult struct {
	OutputDirectory string
	Records         []models.ServiceRecord
	Files           []string
	ManifestPath    string
}

// ExportManifest is written next to the exported files.
type ExportManifest struct {
	ExportedAt   time.Time `json:"exported_at"`
	SearchPhrase string    `json:"search_phrase,omitempty"`
	RecordCount  int       `json:"record_count"`
	OrderNumbers []int     `json:"order_numbers"`
	Files        []string  `json:"files"`
}

// ExportEngine exports funeral services from a [models.RecordStore].
type ExportEngine struct {
	store models.RecordStore
	now   func() time.Time
}

// NewExportEngine creates an ExportEngine reading from store.
func NewExportEngine(store models.RecordStore) *ExportEngine {
	return &ExportEngine{store: store, now: time.Now}
}

// Export lists matching records, fetches each in full and writes them in every requested format.
//
// A store failure aborts the run; files already written are left in place.
func (e *ExportEngine) Export(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: store not initialized", shared.ErrStoreUnavailable)
	}

	if len(opts.Formats) == 0 {
		opts.Formats = []formatter.Format{formatter.FormatCSV}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("fsh_export_%d", e.now().Unix())
	}

	sendProgress(prog, listingUpdate(opts.SearchPhrase))
	summaries, err := e.store.List(ctx, opts.SearchPhrase)
	if err != nil {
		return nil, fmt.Errorf("failed to list funeral services: %w", err)
	}

	records, err := e.fetchAll(ctx, prog, summaries)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		OutputDirectory: opts.OutputDir,
		Records:         records,
		Files:           make([]string, 0, len(opts.Formats)),
	}

	fopts := formatter.Options{PhoneRegion: opts.PhoneRegion}
	for i, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		path, err := formatter.WriteExport(opts.OutputDir, opts.BaseName, format, records, fopts)
		if err != nil {
			return result, fmt.Errorf("%s export failed: %w", format, err)
		}
		result.Files = append(result.Files, path)
		sendProgress(prog, wroteFileUpdate(i+1, len(opts.Formats), path))
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	if err := e.writeManifest(manifestPath, opts, result); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

func (e *ExportEngine) fetchAll(ctx context.Context, prog chan<- ProgressUpdate, summaries []models.ServiceSummary) ([]models.ServiceRecord, error) {
	records := make([]models.ServiceRecord, 0, len(summaries))
	for i, s := range summaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := e.store.Get(ctx, s.OrderNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch order %d: %w", s.OrderNumber, err)
		}
		records = append(records, *record)
		sendProgress(prog, fetchedUpdate(i+1, len(summaries), s.OrderNumber))
	}
	return records, nil
}

func (e *ExportEngine) writeManifest(path string, opts ExportOpts, result *ExportResult) error {
	manifest := ExportManifest{
		ExportedAt:   e.now().UTC(),
		SearchPhrase: opts.SearchPhrase,
		RecordCount:  len(result.Records),
		OrderNumbers: make([]int, 0, len(result.Records)),
		Files:        make([]string, 0, len(result.Files)),
	}
	for _, r := range result.Records {
		manifest.OrderNumbers = append(manifest.OrderNumbers, r.OrderNumber)
	}
	for _, f := range result.Files {
		manifest.Files = append(manifest.Files, filepath.Base(f))
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
