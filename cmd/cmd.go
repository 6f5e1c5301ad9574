// submodule cmd contains command definitions
package main

import (
	"github.com/martium/fsh/internal/formatter"
	"github.com/martium/fsh/internal/models"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func orderNumberArg() cli.Argument {
	return &cli.StringArg{
		Name: "order-number",
	}
}

// recordFlags returns one string flag per editable field plus --file.
//
// Only flags given on the command line are applied, so edit and copy keep every other value.
func recordFlags() []cli.Flag {
	flags := []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "TOML file with record fields, applied before individual flags",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the saved record as JSON",
		},
	}
	for _, field := range models.RecordFields {
		flags = append(flags, &cli.StringFlag{
			Name:     field.Key,
			Usage:    field.Label,
			Category: field.Group,
		})
	}
	return flags
}

// setupCommand handles database initialization and migrations
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config and database if missing, then run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "database",
						Usage: "Database file path to store in the config file",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the latest applied migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
			{
				Name:  "status",
				Usage: "Show applied and pending migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SetupStatus,
			},
		},
	}
}

// servicesCommand handles funeral service records
func servicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "services",
		Aliases: []string{"svc"},
		Usage:   "Browse and edit funeral services",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List funeral services, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Only show services whose summary fields contain this phrase",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
				},
				Action: r.ServicesList,
			},
			{
				Name:      "show",
				Usage:     "Show every field of one funeral service",
				Arguments: []cli.Argument{orderNumberArg()},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ServicesShow,
			},
			{
				Name:   "next",
				Usage:  "Print the order number the next new service will most likely get",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ServicesNext,
			},
			{
				Name:   "create",
				Usage:  "Create a funeral service",
				Flags:  recordFlags(),
				Action: r.ServicesCreate,
			},
			{
				Name:      "edit",
				Usage:     "Change fields of an existing funeral service",
				Arguments: []cli.Argument{orderNumberArg()},
				Flags:     recordFlags(),
				Action:    r.ServicesEdit,
			},
			{
				Name:      "copy",
				Usage:     "Create a new funeral service from an existing one",
				Arguments: []cli.Argument{orderNumberArg()},
				Flags:     recordFlags(),
				Action:    r.ServicesCopy,
			},
		},
	}
}

// exportCommand writes funeral services to files
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export funeral services to csv, markdown, txt, xlsx or json files",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringSliceFlag{
				Name:  "format",
				Usage: "Output format, repeatable: " + formatNames(),
				Value: []string{string(formatter.FormatCSV)},
			},
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "Only export services matching this phrase",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: fsh_export_{timestamp})",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "File name without extension",
				Value: "services",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch interactive terminal UI",
		Flags:  []cli.Flag{configFlag()},
		Action: r.TUI,
	}
}

func formatNames() string {
	names := ""
	for i, f := range formatter.Formats {
		if i > 0 {
			names += ", "
		}
		names += string(f)
	}
	return names
}
