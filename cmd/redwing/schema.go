package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"redwing-hq/redwing/pkg/cli"
	"redwing-hq/redwing/pkg/schema"
)

var schemaFlags struct {
	file   string
	format string
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Work with table description files",
}

// schemaReport is the lint result printed per table.
type schemaReport struct {
	Path   string        `json:"path"`
	Tables []tableReport `json:"tables"`
}

type tableReport struct {
	Name    string `json:"name"`
	DBTable string `json:"db_table"`
	Columns int    `json:"columns"`
}

func (r schemaReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d table(s) ok", r.Path, len(r.Tables))
	for _, t := range r.Tables {
		fmt.Fprintf(&sb, "\n  %s (%s): %d column(s)", t.Name, t.DBTable, t.Columns)
	}
	return sb.String()
}

var schemaLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate a table description file",
	Long: `Load a YAML table description file, apply defaults and run the
same validation the mapping engine runs at startup. Exits non-zero if
the file does not parse or a table is invalid.

Examples:
  # Check the configured schema file
  redwing schema lint

  # Check a specific file, machine-readable output
  redwing schema lint --file ./tables.yaml --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := schemaFlags.file
		if path == "" {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			path = cfg.Schema.Path
		}

		s, err := schema.Load(path)
		if err != nil {
			return err
		}

		report := schemaReport{Path: path}
		for _, t := range s.Tables {
			report.Tables = append(report.Tables, tableReport{
				Name:    t.Name,
				DBTable: t.DBTable,
				Columns: len(t.Columns),
			})
		}
		formatter := cli.NewFormatter(cli.OutputFormat(schemaFlags.format))
		return formatter.FormatTo(os.Stdout, report)
	},
}

func init() {
	schemaLintCmd.Flags().StringVarP(&schemaFlags.file, "file", "f", "",
		"schema file to check (defaults to the configured schema.path)")
	schemaLintCmd.Flags().StringVar(&schemaFlags.format, "format", "text",
		"output format (text, json)")
	schemaCmd.AddCommand(schemaLintCmd)
	rootCmd.AddCommand(schemaCmd)
}
