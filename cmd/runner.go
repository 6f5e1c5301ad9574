package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/martium/fsh/internal/models"
	"github.com/martium/fsh/internal/repositories"
	"github.com/martium/fsh/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	store      models.RecordStore
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Store      models.RecordStore // Store replaces the configured database, mostly for tests
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Store,
	}
}

// SetLogger swaps the logger used by subsequent command actions.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, servicesCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure reloads the configuration when --config points somewhere other than the startup file.
func (r *Runner) configure(cmd *cli.Command) error {
	if !cmd.IsSet("config") {
		return nil
	}

	path := cmd.String("config")
	if path == r.configPath {
		return nil
	}

	config, err := shared.ResolveConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	r.config = config
	r.configPath = path
	return nil
}

// openStore returns the record store for this invocation and a func releasing it.
//
// The database must already exist; creating it is the job of 'setup database'.
func (r *Runner) openStore(cmd *cli.Command) (models.RecordStore, func(), error) {
	if r.store != nil {
		return r.store, func() {}, nil
	}
	if err := r.configure(cmd); err != nil {
		return nil, nil, err
	}

	db, err := shared.OpenDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	r.logger.Debug("opened database", "path", r.config.Database.Path)

	closeFn := func() {
		if err := db.Close(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
	}
	return repositories.NewFuneralServiceRepository(db), closeFn, nil
}

// withStore runs fn against the record store, releasing it afterwards.
func (r *Runner) withStore(ctx context.Context, cmd *cli.Command, fn func(context.Context, models.RecordStore) error) error {
	store, release, err := r.openStore(cmd)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx, store)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
