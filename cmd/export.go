package main

import (
	"context"
	"strings"

	"github.com/martium/fsh/internal/formatter"
	"github.com/martium/fsh/internal/models"
	"github.com/martium/fsh/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes the (optionally filtered) funeral services to files in each requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	formats, err := parseFormats(cmd.StringSlice("format"))
	if err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Formats:      formats,
		OutputDir:    cmd.String("output"),
		BaseName:     cmd.String("name"),
		SearchPhrase: cmd.String("search"),
	}

	return r.withStore(ctx, cmd, func(ctx context.Context, store models.RecordStore) error {
		opts.PhoneRegion = r.config.Locale.PhoneRegion
		r.logger.Info("starting export", "formats", formats, "search", opts.SearchPhrase)

		progressCh := make(chan tasks.ProgressUpdate, 50)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for update := range progressCh {
				switch update.Phase {
				case tasks.ListRecords:
					r.writePlain("🔍 %s\n", update.Message)
				case tasks.FetchRecords:
					r.logger.Debug(update.Message, "step", update.Step, "total", update.Total)
				case tasks.WriteFiles, tasks.WriteManifest:
					r.writePlain("📝 %s\n", update.Message)
				}
			}
		}()

		result, err := tasks.NewExportEngine(store).Export(ctx, progressCh, opts)
		close(progressCh)
		<-done

		if err != nil {
			return err
		}

		r.writePlain("\n")
		r.writePlainHeader("Export Complete!")
		r.writePlain("Records: %d\n", len(result.Records))
		r.writePlainln("Files in %s:", result.OutputDirectory)
		for _, f := range result.Files {
			r.writePlain("  - %s\n", f)
		}
		r.logger.Info("export complete", "records", len(result.Records), "dir", result.OutputDirectory)
		return nil
	})
}

// parseFormats accepts repeated --format flags as well as comma separated lists.
func parseFormats(values []string) ([]formatter.Format, error) {
	var formats []formatter.Format
	seen := make(map[formatter.Format]bool)
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			f, err := formatter.ParseFormat(name)
			if err != nil {
				return nil, err
			}
			if !seen[f] {
				seen[f] = true
				formats = append(formats, f)
			}
		}
	}
	return formats, nil
}
