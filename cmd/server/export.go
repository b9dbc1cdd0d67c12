package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/domain/listing"
	"github.com/phrazzld/tasktrack/internal/export"
	"github.com/phrazzld/tasktrack/internal/service"
)

// exportOptions are the flags of the export command.
type exportOptions struct {
	format  string
	status  string
	search  string
	dueFrom string
	dueTo   string
	output  string
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export filtered tasks as CSV, JSON or PDF",
		Long: `Export writes every task matching the filters, ordered by due date, to a file or stdout.
Without --status only active tasks are exported; --status all exports every task.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, params, err := opts.parse()
			if err != nil {
				return err
			}

			app, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer app.cleanup()

			if err := app.migrate(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.output != "" && opts.output != "-" {
				f, err := os.Create(opts.output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", opts.output, err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			n, err := writeExport(cmd.Context(), app.taskService, format, params, out)
			if err != nil {
				return err
			}
			if opts.output != "" && opts.output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d tasks to %s\n", n, opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", string(export.FormatCSV), "output format: csv, json or pdf")
	cmd.Flags().StringVar(&opts.status, "status", "", "status filter, or \"all\"")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&opts.dueFrom, "due-from", "", "earliest due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.dueTo, "due-to", "", "latest due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file; stdout when empty")
	return cmd
}

// parse validates the flags into an export format and list parameters.
func (o exportOptions) parse() (export.Format, listing.Params, error) {
	format, err := export.ParseFormat(o.format)
	if err != nil {
		return "", listing.Params{}, err
	}

	params := listing.Params{Search: o.search, Status: o.status}
	if params.DueFrom, err = parseDateFlag("due-from", o.dueFrom); err != nil {
		return "", listing.Params{}, err
	}
	if params.DueTo, err = parseDateFlag("due-to", o.dueTo); err != nil {
		return "", listing.Params{}, err
	}
	return format, params, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return d, nil
}

// writeExport renders the tasks selected by params and returns how many were written.
func writeExport(
	ctx context.Context,
	tasks service.TaskService,
	format export.Format,
	params listing.Params,
	w io.Writer,
) (int, error) {
	selected, err := tasks.ExportTasks(ctx, params)
	if err != nil {
		return 0, err
	}
	if err := export.Write(w, format, selected, tasks.Today()); err != nil {
		return 0, fmt.Errorf("failed to write %s export: %w", format, err)
	}
	return len(selected), nil
}
