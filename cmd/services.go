package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/martium/fsh/internal/formatter"
	"github.com/martium/fsh/internal/models"
	"github.com/martium/fsh/internal/shared"
	"github.com/urfave/cli/v3"
)

// ServicesList prints summaries of funeral services, newest first.
func (r *Runner) ServicesList(ctx context.Context, cmd *cli.Command) error {
	phrase := cmd.String("search")

	return r.withStore(ctx, cmd, func(ctx context.Context, store models.RecordStore) error {
		summaries, err := store.List(ctx, phrase)
		if err != nil {
			return fmt.Errorf("failed to list funeral services: %w", err)
		}
		r.logger.Debug("listed funeral services", "count", len(summaries), "search", phrase)

		if cmd.Bool("json") {
			if summaries == nil {
				summaries = []models.ServiceSummary{}
			}
			return r.writeJSON(summaries, cmd.Bool("pretty"))
		}

		if len(summaries) == 0 {
			return r.writePlain("%s\n", emptyListMessage(phrase))
		}

		r.writePlainHeader(fmt.Sprintf("Funeral services (%d)", len(summaries)))
		for _, s := range summaries {
			if err := r.writePlain("#%-6d %-12s %-28s %-20s %s\n",
				s.OrderNumber, s.ServiceDates, s.CustomerNames, s.CustomerPhoneNumbers, s.DepartedInfo); err != nil {
				return err
			}
		}
		return nil
	})
}

// ServicesShow prints every field of one funeral service.
func (r *Runner) ServicesShow(ctx context.Context, cmd *cli.Command) error {
	orderNumber, err := orderNumberFrom(cmd)
	if err != nil {
		return err
	}

	return r.withStore(ctx, cmd, func(ctx context.Context, store models.RecordStore) error {
		record, err := store.Get(ctx, orderNumber)
		if err != nil {
			return fmt.Errorf("failed to get funeral service #%d: %w", orderNumber, err)
		}

		if cmd.Bool("json") {
			return r.writeJSON(record, true)
		}

		data, err := formatter.Render(formatter.FormatText, []models.ServiceRecord{*record}, r.formatOptions())
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	})
}

// ServicesNext prints the advisory next order number.
func (r *Runner) ServicesNext(ctx context.Context, cmd *cli.Command) error {
	return r.withStore(ctx, cmd, func(ctx context.Context, store models.RecordStore) error {
		next, err := store.NextOrderNumber(ctx)
		if err != nil {
			return fmt.Errorf("failed to get next order number: %w", err)
		}
		return r.writePlain("%d\n", next)
	})
}

// ServicesCreate inserts a funeral service built from --file and field flags.
func (r *Runner) ServicesCreate(ctx context.Context, cmd *cli.Command) error {
	record := &models.ServiceRecord{}
	if err := applyRecordInput(cmd, record); err != nil {
		return err
	}

	return r.withStore(ctx, cmd, func(ctx context.Context, store models.RecordStore) error {
		if err := r.save(ctx, store, models.OperationCreate, 0, record); err != nil {
			return err
		}
		return r.reportSaved(cmd, record, "✓ Created funeral service #%d\n", record.OrderNumber)
	})
}

// ServicesEdit overlays --file and field flags onto an existing funeral service and saves it.
func (r *Runner) ServicesEdit(ctx context.Context, cmd *cli.Command) error {
	orderNumber, err := orderNumberFrom(cmd)
	if err != nil {
		return err
	}

	return r.withStore(ctx, cmd, func(ctx context.Context, store models.RecordStore) error {
		record, err := store.Get(ctx, orderNumber)
		if err != nil {
			return fmt.Errorf("failed to get funeral service #%d: %w", orderNumber, err)
		}
		if err := applyRecordInput(cmd, record); err != nil {
			return err
		}
		if err := r.save(ctx, store, models.OperationEdit, orderNumber, record); err != nil {
			return err
		}
		return r.reportSaved(cmd, record, "✓ Updated funeral service #%d\n", orderNumber)
	})
}

// ServicesCopy creates a new funeral service from an existing one, with --file and field flags applied.
func (r *Runner) ServicesCopy(ctx context.Context, cmd *cli.Command) error {
	orderNumber, err := orderNumberFrom(cmd)
	if err != nil {
		return err
	}

	return r.withStore(ctx, cmd, func(ctx context.Context, store models.RecordStore) error {
		source, err := store.Get(ctx, orderNumber)
		if err != nil {
			return fmt.Errorf("failed to get funeral service #%d: %w", orderNumber, err)
		}
		record := source.Clone()
		if err := applyRecordInput(cmd, record); err != nil {
			return err
		}
		if err := r.save(ctx, store, models.OperationCopy, orderNumber, record); err != nil {
			return err
		}
		return r.reportSaved(cmd, record, "✓ Copied funeral service #%d to #%d\n", orderNumber, record.OrderNumber)
	})
}

// save writes record in the given mode and turns a false result into [shared.ErrWriteFailed].
func (r *Runner) save(ctx context.Context, store models.RecordStore, op models.Operation, orderNumber int, record *models.ServiceRecord) error {
	var ok bool
	var err error
	if op.CreatesRecord() {
		ok, err = store.Create(ctx, record)
	} else {
		ok, err = store.Update(ctx, orderNumber, record)
	}
	if err != nil {
		return fmt.Errorf("failed to %s funeral service: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s did not change exactly one row", shared.ErrWriteFailed, op)
	}

	r.logger.Info("saved funeral service", "operation", op, "order_number", record.OrderNumber, "source", orderNumber)
	return nil
}

func (r *Runner) reportSaved(cmd *cli.Command, record *models.ServiceRecord, format string, args ...any) error {
	if cmd.Bool("json") {
		return r.writeJSON(record, true)
	}
	return r.writePlain(format, args...)
}

func (r *Runner) formatOptions() formatter.Options {
	return formatter.Options{PhoneRegion: r.config.Locale.PhoneRegion}
}

// applyRecordInput overlays the --file TOML document and then every explicitly set field flag onto record.
func applyRecordInput(cmd *cli.Command, record *models.ServiceRecord) error {
	if path := cmd.String("file"); path != "" {
		if err := decodeRecordFile(path, record); err != nil {
			return err
		}
	}

	for _, field := range models.RecordFields {
		if !cmd.IsSet(field.Key) {
			continue
		}
		if err := field.Set(record, cmd.String(field.Key)); err != nil {
			return fmt.Errorf("--%s: %w", field.Key, err)
		}
	}
	return nil
}

// decodeRecordFile reads a TOML record document. Keys it does not know are rejected so typos are not lost silently.
func decodeRecordFile(path string, record *models.ServiceRecord) error {
	md, err := toml.DecodeFile(path, record)
	if err != nil {
		return fmt.Errorf("%w: failed to read record file %s: %v", shared.ErrInvalidInput, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys in %s: %s", shared.ErrInvalidInput, path, strings.Join(keys, ", "))
	}
	return nil
}

func orderNumberFrom(cmd *cli.Command) (int, error) {
	value := strings.TrimSpace(cmd.StringArg("order-number"))
	if value == "" {
		return 0, fmt.Errorf("%w: order number", shared.ErrMissingArgument)
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: order number %q must be a positive whole number", shared.ErrInvalidArgument, value)
	}
	return n, nil
}

func emptyListMessage(phrase string) string {
	if strings.TrimSpace(phrase) != "" {
		return fmt.Sprintf("Search phrase '%s' matched no funeral services.", phrase)
	}
	return "No funeral services yet. Run 'fsh services create' to add one."
}
